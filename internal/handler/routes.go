package handler

import (
	"net/http"

	"github.com/fintrack/tracker/shared/middleware"
	"github.com/gin-gonic/gin"
)

// Routes bundles what RegisterRoutes needs to mount the API.
type Routes struct {
	Auth         *AuthHandler
	Transactions *TransactionHandler
	Tokens       middleware.TokenParser
	// ProviderLogin mounts /user/oauth/:provider/callback.
	ProviderLogin bool
}

func RegisterRoutes(r *gin.Engine, routes Routes) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := r.Group("/user")
	{
		user.POST("/signup", routes.Auth.Signup)
		user.POST("/login", routes.Auth.Login)
		user.POST("/refresh", routes.Auth.RefreshToken)
		if routes.ProviderLogin {
			user.POST("/oauth/:provider/callback", routes.Auth.ProviderCallback)
		}
		user.GET("/me", middleware.AuthMiddleware(routes.Tokens), routes.Auth.Me)
	}

	tracker := r.Group("/tracker")
	tracker.Use(middleware.OptionalAuthMiddleware(routes.Tokens))
	{
		tracker.POST("/addTransaction", routes.Transactions.AddTransaction)
		tracker.GET("/viewTransaction", routes.Transactions.ViewTransactions)
		tracker.GET("/transaction/:id", routes.Transactions.GetTransaction)
		tracker.GET("/summary", routes.Transactions.Summary)
	}
}
