package domain

type Student struct {
	ID                string  `json:"id"`
	FacilityID        string  `json:"facility_id"`
	ApplicationID     string  `json:"application_id,omitempty"`
	Name              string  `json:"name"`
	DateOfBirth       string  `json:"date_of_birth"`
	ParentName        string  `json:"parent_name"`
	ParentEmail       string  `json:"parent_email"`
	ParentPhoneNumber string  `json:"parent_phone_number"`
	ParentAddress     string  `json:"parent_address"`
	FeesOwed          float64 `json:"fees_owed"`
	FeesPaid          float64 `json:"fees_paid"`
}

func (s *Student) GetID() string       { return s.ID }
func (s *Student) SetID(id string)     { s.ID = id }
func (s *Student) FacilityRef() string { return s.FacilityID }
