package domain

import "strings"

type ApplicationStatus string

const (
	ApplicationNew      ApplicationStatus = "New"
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationDeclined ApplicationStatus = "Declined"
)

var applicationStatuses = []ApplicationStatus{
	ApplicationNew,
	ApplicationPending,
	ApplicationApproved,
	ApplicationDeclined,
}

// ParseApplicationStatus accepts any casing ("pending" and "Pending" are the
// same column). There is no transition graph.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	for _, status := range applicationStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", NewValidationError("status", "must be one of New, Pending, Approved, Declined")
}

// Application is a prospective-enrollment inquiry for one facility.
type Application struct {
	ID                string            `json:"id"`
	FacilityID        string            `json:"facility_id"`
	Title             string            `json:"title"`
	ParentName        string            `json:"parent_name"`
	ParentEmail       string            `json:"parent_email"`
	ParentPhoneNumber string            `json:"parent_phone_number"`
	ParentAddress     string            `json:"parent_address"`
	NumberOfChildren  int               `json:"number_of_children"`
	Description       string            `json:"description"`
	Status            ApplicationStatus `json:"status"`
}

func (a *Application) GetID() string       { return a.ID }
func (a *Application) SetID(id string)     { a.ID = id }
func (a *Application) FacilityRef() string { return a.FacilityID }

func (a *Application) CanPromote() bool {
	return a.Status == ApplicationApproved
}

// ToStudent projects the application onto a new student row in the same
// facility. The caller assigns the student ID.
func (a *Application) ToStudent() Student {
	return Student{
		FacilityID:        a.FacilityID,
		ApplicationID:     a.ID,
		Name:              a.Title,
		ParentName:        a.ParentName,
		ParentEmail:       a.ParentEmail,
		ParentPhoneNumber: a.ParentPhoneNumber,
		ParentAddress:     a.ParentAddress,
	}
}
