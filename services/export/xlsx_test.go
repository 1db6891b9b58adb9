package exportsvc

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/schedule"
)

func TestAttendanceSheet(t *testing.T) {
	sched := schedule.Schedule{
		Subject:   "Algorithms",
		Group:     "G1",
		Date:      "2024-01-15",
		StartTime: "10:00",
		EndTime:   "11:30",
	}
	recs := []attendance.Record{
		{StudentID: "s1", StudentName: "Alice", Status: attendance.StatusPresent},
		{StudentID: "s2", StudentName: "Bob", Status: attendance.StatusLate, Notes: "bus"},
		{StudentID: "s3", Status: attendance.StatusAbsent}, // name missing, falls back to the ID
	}

	buf, err := AttendanceSheet(sched, recs)
	if err != nil {
		t.Fatalf("AttendanceSheet() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheetName, ref)
		if err != nil {
			t.Fatalf("reading %s: %v", ref, err)
		}
		return v
	}

	wantCells := map[string]string{
		"A1": "Algorithms",
		"B1": "G1",
		"C1": "2024-01-15",
		"D1": "10:00 - 11:30",
		"A3": "Student",
		"A4": "Alice",
		"B4": "present",
		"A5": "Bob",
		"C5": "bus",
		"A6": "s3",
		"B6": "absent",
		// footer: Total 3, 1 present, 1 late, 1 absent
		"B8":  "3",
		"B9":  "1",
		"B12": "33%",
	}
	for ref, want := range wantCells {
		if got := cell(ref); got != want {
			t.Errorf("cell %s = %q; want %q", ref, got, want)
		}
	}
}
