package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/karim-saleh/guardpay/api/model"
	"github.com/karim-saleh/guardpay/model"
)

// CreateAccount registers a new wallet account with a generated address.
//
// Responses:
// - 400 Bad Request: If the body fails binding or validation.
// - 201 Created: The registered account.
func (a Api) CreateAccount(c *gin.Context) {
	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newAccount.ValidateCreateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RegisterAccount(newAccount.Name, newAccount.OpeningBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetAccount fetches one account by wallet address.
func (a Api) GetAccount(c *gin.Context) {
	address, passed := c.Params.Get("address")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required. pass address in the route /:address"})
		return
	}

	resp, err := a.service.GetAccount(address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllAccounts lists every registered account.
func (a Api) GetAllAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, a.service.GetAllAccounts())
}

// GetAccountTransactions lists the transactions an address took part in.
func (a Api) GetAccountTransactions(c *gin.Context) {
	address, passed := c.Params.Get("address")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required. pass address in the route /:address"})
		return
	}

	c.JSON(http.StatusOK, a.service.TransactionsFor(address))
}

// GetDefaultSavingsPlans lists the full savings plan catalogue.
func (a Api) GetDefaultSavingsPlans(c *gin.Context) {
	c.JSON(http.StatusOK, model.DefaultSavingsPlans())
}

// GetSavingsPlans lists the savings plans available to an account's tier.
func (a Api) GetSavingsPlans(c *gin.Context) {
	address, passed := c.Params.Get("address")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required. pass address in the route /:address"})
		return
	}

	c.JSON(http.StatusOK, a.service.SavingsPlansFor(address))
}
