package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetRates refreshes and returns the full USD exchange rate table.
func (a Api) GetRates(c *gin.Context) {
	rates := a.service.Rates()
	rates.UpdateRates(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"rates":      rates.AllRates(),
		"updated_at": rates.LastUpdate(),
	})
}

// GetRate returns the rate and timing recommendation for one currency. An
// optional amount query parameter adds the converted value and the potential
// savings against the weekly average.
func (a Api) GetRate(c *gin.Context) {
	currency, passed := c.Params.Get("currency")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency is required. pass currency in the route /:currency"})
		return
	}

	rates := a.service.Rates()
	resp := gin.H{
		"currency":       currency,
		"rate":           rates.Rate(currency),
		"recommendation": rates.Recommendation(currency),
	}

	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
			return
		}
		resp["converted"] = rates.Convert(amount, currency)
		resp["potential_savings"] = rates.PotentialSavings(amount, currency)
	}

	c.JSON(http.StatusOK, resp)
}
