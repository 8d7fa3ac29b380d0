// Package cli implements the tracker command-line front end on top of the
// API client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fintrack/tracker/internal/client"
	"github.com/fintrack/tracker/shared/ledger"
	"github.com/fintrack/tracker/shared/models"
	"golang.org/x/term"
)

const DefaultAPIURL = "http://localhost:8080"

const usage = `usage: tracker [-api URL] [-token TOKEN] <command> [flags]

commands:
  signup    create an account
  login     log in and print a token to export as TRACKER_TOKEN
  add       record an income or expense
  list      list transactions, optionally for -month and -year
  summary   show income, expenses and balance, optionally for -month and -year
`

var ErrUsage = errors.New("invalid usage")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type App struct {
	client *client.Client
	in     *bufio.Reader
	out    io.Writer
	today  func() time.Time
}

func New(c *client.Client, in io.Reader, out io.Writer) *App {
	return &App{client: c, in: bufio.NewReader(in), out: out, today: time.Now}
}

// Run parses the global flags, builds the client and dispatches the
// subcommand.
func Run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	global := flag.NewFlagSet("tracker", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	api := global.String("api", envOr("TRACKER_API_URL", DefaultAPIURL), "API base URL")
	token := global.String("token", os.Getenv("TRACKER_TOKEN"), "bearer token from login")
	if err := global.Parse(args); err != nil {
		return ErrUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return ErrUsage
	}

	app := New(client.New(*api, client.WithToken(*token)), in, out)
	return app.Dispatch(ctx, rest[0], rest[1:])
}

func (a *App) Dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return a.Signup(ctx, args)
	case "login":
		return a.Login(ctx, args)
	case "add":
		return a.Add(ctx, args)
	case "list":
		return a.List(ctx, args)
	case "summary":
		return a.Summary(ctx, args)
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) Signup(ctx context.Context, args []string) error {
	fs := a.flagSet("signup")
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *username == "" {
		if *username, err = a.prompt("Username"); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	confirm := *password
	if *password == "" {
		if *password, err = a.promptPassword("Password: "); err != nil {
			return err
		}
		if confirm, err = a.promptPassword("Confirm password: "); err != nil {
			return err
		}
	}

	user, err := a.client.Signup(ctx, client.SignupRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		Confirm:  confirm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s (%s)\n", user.Email, user.ID)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = a.promptPassword("Password: "); err != nil {
			return err
		}
	}

	user, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\nexport TRACKER_TOKEN=%s\n", user.Email, a.client.Token())
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	description := fs.String("desc", "", "description")
	category := fs.String("category", "", "category")
	kind := fs.String("type", string(ledger.Expense), "income or expense")
	amount := fs.Float64("amount", 0, "amount (always entered as a positive number)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	k, ok := ledger.ParseKind(*kind)
	if !ok {
		return client.ErrInvalidKind
	}
	if *description == "" || *category == "" || *amount == 0 {
		fmt.Fprintf(a.out, "add needs -desc, -category and -amount; %s categories: %s\n",
			k, strings.Join(ledger.Categories(k), ", "))
		return ErrUsage
	}

	d := models.NewDate(a.today().Year(), a.today().Month(), a.today().Day())
	if *date != "" {
		parsed, err := models.ParseDate(*date)
		if err != nil {
			return err
		}
		d = parsed
	}

	created, err := a.client.AddTransaction(ctx, client.NewTransaction{
		Date:        d,
		Description: *description,
		Category:    *category,
		Kind:        k,
		Amount:      *amount,
	})
	if err != nil {
		return err
	}
	a.printTransactions([]models.TransactionView{*created.View()})
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	period, err := a.parsePeriod("list", args)
	if err != nil {
		return err
	}
	txs, _, err := a.client.Summary(ctx, period)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return nil
	}
	a.printTransactions(txs)
	return nil
}

func (a *App) Summary(ctx context.Context, args []string) error {
	period, err := a.parsePeriod("summary", args)
	if err != nil {
		return err
	}
	_, s, err := a.client.Summary(ctx, period)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Transactions\t%d\n", s.Count)
	fmt.Fprintf(w, "Income\t%.2f\n", s.TotalIncome)
	fmt.Fprintf(w, "Expenses\t%.2f\n", s.TotalExpenses)
	fmt.Fprintf(w, "Balance\t%.2f\n", s.Balance)
	return w.Flush()
}

func (a *App) parsePeriod(name string, args []string) (ledger.Period, error) {
	fs := a.flagSet(name)
	month := fs.Int("month", 0, "month 1-12 (0 for any)")
	year := fs.Int("year", 0, "year (0 for any)")
	if err := fs.Parse(args); err != nil {
		return ledger.Period{}, ErrUsage
	}
	if *month < 0 || *month > 12 || *year < 0 {
		fmt.Fprintln(a.out, "month must be 1-12 and year positive")
		return ledger.Period{}, ErrUsage
	}
	return ledger.Period{Month: *month, Year: *year}, nil
}

func (a *App) printTransactions(txs []models.TransactionView) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, t := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", t.Date, t.Description, t.Category, t.Amount)
	}
	_ = w.Flush()
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) promptPassword(label string) (string, error) {
	fmt.Fprint(a.out, label)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
