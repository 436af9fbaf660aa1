package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/karim-saleh/guardpay/api/model"
)

// RecordTransfer handles the recording of a new transfer. It binds the
// incoming JSON request, validates it and runs the transfer under the
// request's context, so a dropped client connection aborts an unsettled
// transfer.
//
// Responses:
// - 400 Bad Request: If there's an error in binding or validating the body.
// - 201 Created: If the transfer settled successfully.
func (a Api) RecordTransfer(c *gin.Context) {
	var newTransfer model2.RecordTransfer
	if err := c.ShouldBindJSON(&newTransfer); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newTransfer.ValidateRecordTransfer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.Transfer(c.Request.Context(), newTransfer.Sender, newTransfer.Recipient, newTransfer.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTransaction fetches a single transaction record by id.
func (a Api) GetTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetTransaction(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetHistory lists every recorded transaction, newest first.
func (a Api) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, a.service.History())
}
