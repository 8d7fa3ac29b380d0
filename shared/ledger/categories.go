package ledger

import "slices"

// Kind is the client-side presentation of a transaction's polarity. It is
// never sent to or stored by the server; only the amount's sign is.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

var (
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
	ExpenseCategories = []string{"Food", "Transport", "Housing", "Utilities", "Entertainment", "Health", "Shopping", "Other"}
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Income, Expense:
		return Kind(s), true
	}
	return "", false
}

// Categories lists the categories offered for kind.
func Categories(kind Kind) []string {
	if kind == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

func ValidCategory(kind Kind, category string) bool {
	return slices.Contains(Categories(kind), category)
}
