package handler

import (
	"io"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Reservations"
)

var exportHeader = []any{
	"ID", "Student", "National ID", "Clinic", "Date", "Exam type", "Status", "Transferred", "Transfer reason", "Created at",
}

// writeReservationsXLSX renders reservations as a single-sheet workbook.
func writeReservationsXLSX(w io.Writer, rows []model.ReservationDetail, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(2, 4, 24); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := make([]any, len(exportHeader))
	for i, v := range exportHeader {
		header[i] = excelize.Cell{StyleID: bold, Value: v}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		reason := ""
		if r.Transfer != nil {
			reason = r.Transfer.Reason
		}
		if err := sw.SetRow(cell, []any{
			r.ID,
			r.StudentName,
			r.NationalID,
			r.ClinicName,
			r.Date.Format(model.DateLayout),
			r.ExamType,
			string(r.Status),
			r.Transferred,
			reason,
			r.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		}); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
