package attendance

import "math"

// Summary holds attendance statistics derived from a set of records.
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	// AttendanceRate is round(present/total*100), 0 for an empty set.
	AttendanceRate int `json:"attendance_rate"`
}

// Summarize computes statistics from a set of records. It is pure and never
// fails: an empty input yields the zero Summary.
//
// Absent is derived as Total-Present-Late rather than counted, so any status
// outside the recognized set would fold into it.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Late++
		}
	}
	s.Absent = s.Total - s.Present - s.Late
	if s.Total > 0 {
		s.AttendanceRate = int(math.Round(float64(s.Present) / float64(s.Total) * 100))
	}
	return s
}
