package core

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"worktally.com/worktally/attendance/model"
)

const reportSheet = "Attendance"

var reportHeader = []any{
	"Date",
	"Clock In",
	"Clock Out",
	"Rated Work Hours",
	"Rated Daily Salary",
	"Actual Work Hours",
	"Expected Daily Salary",
	"Actual Hourly Rate",
}

// ReportSummary totals the completed days of a report.
type ReportSummary struct {
	Days                int
	CompletedDays       int
	ActualWorkHours     float64
	ExpectedDailySalary float64
}

func Summarize(records []model.ClockRecord) ReportSummary {
	var s ReportSummary
	s.Days = len(records)
	for _, r := range records {
		if !r.ClockedOut() {
			continue
		}
		s.CompletedDays++
		if r.ActualWorkHours != nil {
			s.ActualWorkHours += *r.ActualWorkHours
		}
		if r.ExpectedDailySalary != nil {
			s.ExpectedDailySalary += *r.ExpectedDailySalary
		}
	}
	s.ActualWorkHours = Round2(s.ActualWorkHours)
	s.ExpectedDailySalary = Round2(s.ExpectedDailySalary)
	return s
}

// BuildReport renders the records as an xlsx workbook, one row per day plus a total row.
func BuildReport(records []model.ClockRecord, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return nil, err
	}

	for i, r := range records {
		row := []any{
			r.Date,
			r.ClockInTime.In(loc).Format("15:04:05"),
			formatTime(r.ClockOutTime, loc),
			floatCell(r.RatedWorkHours),
			floatCell(r.RatedDailySalary),
			floatCell(r.ActualWorkHours),
			floatCell(r.ExpectedDailySalary),
			floatCell(r.ActualHourlyRate),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	summary := Summarize(records)
	totalCell, err := excelize.CoordinatesToCellName(1, len(records)+2)
	if err != nil {
		return nil, err
	}
	total := []any{"Total", "", "", "", "", summary.ActualWorkHours, summary.ExpectedDailySalary, ""}
	if err := f.SetSheetRow(reportSheet, totalCell, &total); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
