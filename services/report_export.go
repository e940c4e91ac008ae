package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/restaurant-reservation/models"
)

const ReportSheet = "Reservations"

var reportHeader = []interface{}{
	"ID", "Date", "Time", "Table", "Party size", "Customer", "Status", "Fulfilled by", "Created at",
}

// BuildReservationWorkbook lays reservations out one per row under a header
// row. The caller owns the returned file and must Close it.
func BuildReservationWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(ReportSheet, "A1", &reportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range reservations {
		waiter := ""
		if r.WaiterName != nil {
			waiter = *r.WaiterName
		}
		row := []interface{}{
			r.ID,
			r.Date,
			r.Time.String(),
			r.TableNumber,
			r.PartySize,
			r.CustomerName,
			string(r.Status),
			waiter,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
