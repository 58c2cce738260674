package domain

import "time"

// Facility is a childcare centre, the tenancy anchor of every other record.
type Facility struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	WebsiteURL   string    `json:"website_url"`
	FacebookURL  string    `json:"facebook_url"`
	InstagramURL string    `json:"instagram_url"`
	Price        float64   `json:"price"`
	Capacity     int       `json:"capacity"`
	HeaderImage  string    `json:"header_image"`
	Images       []string  `json:"images"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (f *Facility) GetID() string   { return f.ID }
func (f *Facility) SetID(id string) { f.ID = id }

// FacilityRef of a facility is its own ID, so containment filters apply to
// facility listings the same way they apply to linked records.
func (f *Facility) FacilityRef() string { return f.ID }
