package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errDateRangeRequired = errors.New("start_date and end_date are required")

// ReportController serves the manager's reservation reports.
type ReportController struct {
	Service *services.ReservationService
}

func NewReportController(svc *services.ReservationService) *ReportController {
	return &ReportController{Service: svc}
}

// statusPeriodFilter reads ?status=&start_date=&end_date=. Both dates are
// mandatory for reports.
func statusPeriodFilter(c *gin.Context) (services.SearchFilter, bool) {
	f := services.SearchFilter{
		Status:    c.Query("status"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	return f, f.StartDate != "" && f.EndDate != ""
}

// GetReservationsReport -> reservations by status within a period
func (rc *ReportController) GetReservationsReport(c *gin.Context) {
	filter, ok := statusPeriodFilter(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errDateRangeRequired)
		return
	}

	reservations, err := rc.Service.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(reservations) == 0 {
		utils.RespondMessage(c, http.StatusNotFound, "no reservations found for the given criteria")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations report", reservations)
}

// GetTableReport -> every reservation made for one table
func (rc *ReportController) GetTableReport(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("tableNumber"))
	if err != nil || number <= 0 {
		utils.RespondMessage(c, http.StatusBadRequest, "invalid table number")
		return
	}

	reservations, err := rc.Service.ByTable(c.Request.Context(), number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(reservations) == 0 {
		utils.RespondMessage(c, http.StatusNotFound, "no reservations found for this table")
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Reservations for table %d", number), reservations)
}

// GetWaiterReport -> reservations fulfilled by one waiter
func (rc *ReportController) GetWaiterReport(c *gin.Context) {
	waiterID, ok := uintParam(c, "waiterId")
	if !ok {
		utils.RespondMessage(c, http.StatusBadRequest, "invalid waiter id")
		return
	}

	waiter, err := rc.Service.Waiter(c.Request.Context(), waiterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	reservations, err := rc.Service.ByWaiter(c.Request.Context(), waiter.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(reservations) == 0 {
		utils.RespondMessage(c, http.StatusNotFound, fmt.Sprintf("no tables fulfilled by waiter %s", waiter.Name))
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Tables fulfilled by %s", waiter.Name), reservations)
}

// ExportReservationsReport -> the status/period report as an .xlsx download.
// An empty result still yields a workbook with the header row.
func (rc *ReportController) ExportReservationsReport(c *gin.Context) {
	filter, ok := statusPeriodFilter(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errDateRangeRequired)
		return
	}

	reservations, err := rc.Service.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	file, err := services.BuildReservationWorkbook(reservations)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	name := reportFileName(filter)
	utils.InfoLogger.Printf("Exporting %d reservations to %s", len(reservations), name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func reportFileName(f services.SearchFilter) string {
	status := f.Status
	if _, ok := models.ParseStatus(status); !ok {
		status = "all"
	}
	return fmt.Sprintf("reservations_%s_%s_%s.xlsx", status, f.StartDate, f.EndDate)
}
