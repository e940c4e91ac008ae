package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// TableController serves the reference data the booking forms select from.
type TableController struct {
	Service *services.ReservationService
}

func NewTableController(svc *services.ReservationService) *TableController {
	return &TableController{Service: svc}
}

// GetAllTables -> every table ordered by number
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Service.Tables(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetAllWaiters -> every waiter ordered by name
func (tc *TableController) GetAllWaiters(c *gin.Context) {
	waiters, err := tc.Service.Waiters(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of waiters", waiters)
}
