package domain

type Staff struct {
	ID            string `json:"id"`
	FacilityID    string `json:"facility_id"`
	Name          string `json:"name"`
	Qualification string `json:"qualification"`
	StaffNumber   string `json:"staff_number"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	Position      string `json:"position"`
}

func (s *Staff) GetID() string       { return s.ID }
func (s *Staff) SetID(id string)     { s.ID = id }
func (s *Staff) FacilityRef() string { return s.FacilityID }
