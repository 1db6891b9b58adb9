// Package exportsvc renders attendance sheets as .xlsx workbooks for after
// class bookkeeping.
package exportsvc

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/schedule"
)

const sheetName = "Attendance"

// AttendanceSheet renders one schedule's roster for a class meeting: a header,
// one row per student and a totals footer.
func AttendanceSheet(sched schedule.Schedule, recs []attendance.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	set := func(cell string, value interface{}) {
		_ = f.SetCellValue(sheetName, cell, value)
	}

	set("A1", sched.Subject)
	set("B1", sched.Group)
	set("C1", sched.Date)
	set("D1", sched.StartTime+" - "+sched.EndTime)

	set("A3", "Student")
	set("B3", "Status")
	set("C3", "Notes")

	row := 4
	for _, rec := range recs {
		name := rec.StudentName
		if name == "" {
			name = rec.StudentID
		}
		set(fmt.Sprintf("A%d", row), name)
		set(fmt.Sprintf("B%d", row), string(rec.Status))
		set(fmt.Sprintf("C%d", row), rec.Notes)
		row++
	}

	s := attendance.Summarize(recs)
	row++
	set(fmt.Sprintf("A%d", row), "Total")
	set(fmt.Sprintf("B%d", row), s.Total)
	row++
	set(fmt.Sprintf("A%d", row), "Present")
	set(fmt.Sprintf("B%d", row), s.Present)
	row++
	set(fmt.Sprintf("A%d", row), "Late")
	set(fmt.Sprintf("B%d", row), s.Late)
	row++
	set(fmt.Sprintf("A%d", row), "Absent")
	set(fmt.Sprintf("B%d", row), s.Absent)
	row++
	set(fmt.Sprintf("A%d", row), "Attendance rate")
	set(fmt.Sprintf("B%d", row), fmt.Sprintf("%d%%", s.AttendanceRate))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}
