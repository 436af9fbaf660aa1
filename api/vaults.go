package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/karim-saleh/guardpay/api/model"
)

// CreateVault opens a new guardian-controlled escrow vault.
//
// Responses:
// - 400 Bad Request: If the body fails binding or validation.
// - 201 Created: The created vault.
func (a Api) CreateVault(c *gin.Context) {
	var newVault model2.CreateVault
	if err := c.ShouldBindJSON(&newVault); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newVault.ValidateCreateVault(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.CreateVault(newVault.Name, newVault.Purpose, newVault.CreatorAddress, newVault.TotalAmount, newVault.ToGuardians())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetVault fetches one vault by id.
func (a Api) GetVault(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetVault(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllVaults lists vaults, filtered to one address's vaults when the
// member query parameter is set.
func (a Api) GetAllVaults(c *gin.Context) {
	member := c.Query("member")
	c.JSON(http.StatusOK, a.service.ListVaults(member))
}

// GetPendingWithdrawalRequests lists a vault's withdrawal requests that are
// still awaiting quorum.
func (a Api) GetPendingWithdrawalRequests(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.PendingRequests(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddGuardian registers a guardian on an existing vault.
func (a Api) AddGuardian(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var newGuardian model2.CreateGuardian
	if err := c.ShouldBindJSON(&newGuardian); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newGuardian.ValidateCreateGuardian(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := a.service.AddGuardian(id, newGuardian.ToGuardian()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "guardian added"})
}

// CreateWithdrawalRequest opens a withdrawal request on a vault.
func (a Api) CreateWithdrawalRequest(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var newRequest model2.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&newRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newRequest.ValidateCreateWithdrawalRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.SubmitWithdrawalRequest(id, newRequest.RequesterAddress, newRequest.Amount, newRequest.Purpose, newRequest.Proof)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CastVote records a guardian's vote on a withdrawal request and returns the
// resulting request state.
func (a Api) CastVote(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}
	requestID, passed := c.Params.Get("request_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_id is required. pass request_id in the route /:request_id"})
		return
	}

	var vote model2.CastVote
	if err := c.ShouldBindJSON(&vote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := vote.ValidateCastVote(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	outcome, err := a.service.Vote(c.Request.Context(), id, requestID, vote.GuardianAddress, *vote.Approve)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}
