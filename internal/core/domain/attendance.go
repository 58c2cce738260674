package domain

import (
	"sort"
	"strings"
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent              AttendanceStatus = "Present"
	AttendanceAbsent               AttendanceStatus = "Absent"
	AttendanceLate                 AttendanceStatus = "Late"
	AttendanceSickLeave            AttendanceStatus = "Sick Leave"
	AttendanceAnnualLeave          AttendanceStatus = "Annual Leave"
	AttendanceFamilyResponsibility AttendanceStatus = "Family Responsibility"
)

var attendanceStatuses = []AttendanceStatus{
	AttendancePresent,
	AttendanceAbsent,
	AttendanceLate,
	AttendanceSickLeave,
	AttendanceAnnualLeave,
	AttendanceFamilyResponsibility,
}

func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	for _, status := range attendanceStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", NewValidationError("status", "is not a known attendance status")
}

type SubjectKind string

const (
	SubjectStudent SubjectKind = "student"
	SubjectStaff   SubjectKind = "staff"
)

func ParseSubjectKind(s string) (SubjectKind, error) {
	switch SubjectKind(strings.ToLower(strings.TrimSpace(s))) {
	case SubjectStudent:
		return SubjectStudent, nil
	case SubjectStaff:
		return SubjectStaff, nil
	}
	return "", NewValidationError("kind", "must be student or staff")
}

// AttendanceRecord is a per-day status. Records are appended, never edited.
type AttendanceRecord struct {
	ID          string           `json:"id"`
	SubjectKind SubjectKind      `json:"subject_kind"`
	SubjectID   string           `json:"subject_id"`
	FacilityID  string           `json:"facility_id"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Note        string           `json:"note,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (a *AttendanceRecord) GetID() string       { return a.ID }
func (a *AttendanceRecord) SetID(id string)     { a.ID = id }
func (a *AttendanceRecord) FacilityRef() string { return a.FacilityID }

// ValidMonth reports whether s has the YYYY-MM layout.
func ValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

type AttendanceTotals struct {
	Present int `json:"total_present"`
	Absent  int `json:"total_absent"`
	Late    int `json:"total_late"`
}

type SubjectAttendance struct {
	SubjectID   string `json:"subject_id"`
	Name        string `json:"name"`
	PresentDays int    `json:"present_days"`
	AbsentDays  int    `json:"absent_days"`
	LateDays    int    `json:"late_days"`
}

type AttendanceReport struct {
	Month    string              `json:"month"`
	Message  string              `json:"message"`
	Overall  AttendanceTotals    `json:"overall"`
	Subjects []SubjectAttendance `json:"subjects"`
}

const (
	reportEmptyMessage = "No data available for the specified month."
	reportOKMessage    = "Data retrieved successfully."
)

// BuildAttendanceReport counts Present, Absent and Late days per subject.
// Leave statuses are kept on the records but not counted. Subjects are
// ordered by name so reports are stable.
func BuildAttendanceReport(month string, records []AttendanceRecord, names map[string]string) AttendanceReport {
	report := AttendanceReport{Month: month, Subjects: []SubjectAttendance{}}
	if len(records) == 0 {
		report.Message = reportEmptyMessage
		return report
	}

	bySubject := make(map[string]*SubjectAttendance)
	for _, rec := range records {
		s, ok := bySubject[rec.SubjectID]
		if !ok {
			s = &SubjectAttendance{SubjectID: rec.SubjectID, Name: names[rec.SubjectID]}
			bySubject[rec.SubjectID] = s
		}
		switch rec.Status {
		case AttendancePresent:
			s.PresentDays++
			report.Overall.Present++
		case AttendanceAbsent:
			s.AbsentDays++
			report.Overall.Absent++
		case AttendanceLate:
			s.LateDays++
			report.Overall.Late++
		}
	}

	for _, s := range bySubject {
		report.Subjects = append(report.Subjects, *s)
	}
	sort.Slice(report.Subjects, func(i, j int) bool {
		if report.Subjects[i].Name == report.Subjects[j].Name {
			return report.Subjects[i].SubjectID < report.Subjects[j].SubjectID
		}
		return report.Subjects[i].Name < report.Subjects[j].Name
	})
	report.Message = reportOKMessage
	return report
}
