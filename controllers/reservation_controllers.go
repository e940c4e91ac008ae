package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

var (
	errMissingFields = errors.New("all fields are required: date, time, table_number, party_size, customer_name")
	errMissingWaiter = errors.New("waiter_id is required")
	errInvalidResvID = errors.New("invalid reservation id")
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Service: svc}
}

// GetAllReservations -> every reservation, latest slot first
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID -> a single reservation
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errInvalidResvID)
		return
	}

	reservation, err := rc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// CreateReservation -> receptionist books a table
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Date         string `json:"date" binding:"required"`
		Time         string `json:"time" binding:"required"`
		TableNumber  int    `json:"table_number" binding:"required"`
		PartySize    int    `json:"party_size" binding:"required"`
		CustomerName string `json:"customer_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errMissingFields)
		return
	}

	reservation, err := rc.Service.Create(c.Request.Context(), services.CreateReservationRequest{
		Date:         req.Date,
		Time:         req.Time,
		TableNumber:  req.TableNumber,
		PartySize:    req.PartySize,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// CancelReservation -> receptionist cancels a reserved booking
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errInvalidResvID)
		return
	}

	if err := rc.Service.Cancel(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled successfully", gin.H{"id": id})
}

// FulfillReservation -> waiter confirms the party was seated
func (rc *ReservationController) FulfillReservation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errInvalidResvID)
		return
	}

	var body struct {
		WaiterID uint `json:"waiter_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errMissingWaiter)
		return
	}

	if err := rc.Service.Fulfill(c.Request.Context(), id, body.WaiterID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation fulfilled successfully", gin.H{
		"id":        id,
		"waiter_id": body.WaiterID,
	})
}
