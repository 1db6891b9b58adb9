package attendance

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		recs []Record
		want Summary
	}{
		{
			name: "empty history",
			recs: nil,
			want: Summary{},
		},
		{
			name: "mixed statuses",
			recs: []Record{
				{Status: StatusPresent},
				{Status: StatusPresent},
				{Status: StatusLate},
				{Status: StatusAbsent},
			},
			want: Summary{Total: 4, Present: 2, Late: 1, Absent: 1, AttendanceRate: 50},
		},
		{
			name: "all present",
			recs: []Record{
				{Status: StatusPresent},
				{Status: StatusPresent},
				{Status: StatusPresent},
			},
			want: Summary{Total: 3, Present: 3, AttendanceRate: 100},
		},
		{
			name: "all absent",
			recs: []Record{
				{Status: StatusAbsent},
				{Status: StatusAbsent},
			},
			want: Summary{Total: 2, Absent: 2},
		},
		{
			name: "rate rounds to nearest",
			recs: []Record{
				{Status: StatusPresent},
				{Status: StatusAbsent},
				{Status: StatusAbsent},
			},
			want: Summary{Total: 3, Present: 1, Absent: 2, AttendanceRate: 33},
		},
		{
			name: "late does not count towards rate",
			recs: []Record{
				{Status: StatusLate},
				{Status: StatusLate},
			},
			want: Summary{Total: 2, Late: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.recs); got != tt.want {
				t.Errorf("Summarize() = %+v; want %+v", got, tt.want)
			}
		})
	}
}
