package domain

import "time"

// Event is a calendar entry owned by a single user.
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	Priority    string    `json:"priority"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Link        string    `json:"link"`
}

func (e *Event) GetID() string    { return e.ID }
func (e *Event) SetID(id string)  { e.ID = id }
func (e *Event) OwnerRef() string { return e.OwnerID }
