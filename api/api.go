package api

import (
	"github.com/gin-gonic/gin"

	"github.com/karim-saleh/guardpay"
	"github.com/karim-saleh/guardpay/api/middleware"
	"github.com/karim-saleh/guardpay/config"
	"github.com/karim-saleh/guardpay/internal/apierror"
)

type Api struct {
	service *guardpay.Guardpay
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/accounts", a.CreateAccount)
	router.GET("/accounts/:address", a.GetAccount)
	router.GET("/accounts", a.GetAllAccounts)
	router.GET("/accounts/:address/transactions", a.GetAccountTransactions)
	router.GET("/accounts/:address/savings-plans", a.GetSavingsPlans)

	router.POST("/transactions", a.RecordTransfer)
	router.GET("/transactions/:id", a.GetTransaction)
	router.GET("/transactions", a.GetHistory)

	router.POST("/vaults", a.CreateVault)
	router.GET("/vaults/:id", a.GetVault)
	router.GET("/vaults", a.GetAllVaults)
	router.POST("/vaults/:id/guardians", a.AddGuardian)
	router.POST("/vaults/:id/requests", a.CreateWithdrawalRequest)
	router.GET("/vaults/:id/requests", a.GetPendingWithdrawalRequests)
	router.POST("/vaults/:id/requests/:request_id/votes", a.CastVote)

	router.GET("/rates", a.GetRates)
	router.GET("/rates/:currency", a.GetRate)

	router.GET("/plans", a.GetDefaultSavingsPlans)

	return a.router
}

func NewAPI(service *guardpay.Guardpay) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{service: service, router: r}
}

// respondError maps service errors onto HTTP responses, keeping the typed
// error code in the body.
func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  string(apierror.CodeOf(err)),
	})
}
