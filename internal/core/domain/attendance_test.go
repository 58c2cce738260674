package domain

import "testing"

func TestBuildAttendanceReport(t *testing.T) {
	records := []AttendanceRecord{
		{SubjectID: "s1", Status: AttendancePresent},
		{SubjectID: "s1", Status: AttendanceLate},
		{SubjectID: "s2", Status: AttendanceAbsent},
		{SubjectID: "s2", Status: AttendancePresent},
		{SubjectID: "s2", Status: AttendanceSickLeave},
	}
	names := map[string]string{"s1": "Zinhle", "s2": "Aiden"}

	r := BuildAttendanceReport("2024-05", records, names)
	if r.Overall != (AttendanceTotals{Present: 2, Absent: 1, Late: 1}) {
		t.Errorf("unexpected totals: %+v", r.Overall)
	}
	if len(r.Subjects) != 2 || r.Subjects[0].Name != "Aiden" {
		t.Fatalf("expected subjects ordered by name, got %+v", r.Subjects)
	}
	if r.Subjects[1].PresentDays != 1 || r.Subjects[1].LateDays != 1 {
		t.Errorf("unexpected counts for Zinhle: %+v", r.Subjects[1])
	}
}

func TestBuildAttendanceReport_Empty(t *testing.T) {
	r := BuildAttendanceReport("2024-06", nil, nil)
	if r.Message != "No data available for the specified month." {
		t.Errorf("unexpected message %q", r.Message)
	}
	if r.Subjects == nil {
		t.Error("subjects must encode as []")
	}
}

func TestValidMonth(t *testing.T) {
	if !ValidMonth("2024-05") || ValidMonth("2024-5") || ValidMonth("May") {
		t.Error("ValidMonth accepted or rejected the wrong layout")
	}
}
