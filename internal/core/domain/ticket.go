package domain

import (
	"strings"
	"time"
)

type TicketStatus string

// Ticket statuses double as the columns of the support board.
const (
	TicketOpen       TicketStatus = "Open"
	TicketPending    TicketStatus = "Pending"
	TicketInProgress TicketStatus = "In Progress"
	TicketTesting    TicketStatus = "Testing"
	TicketClosed     TicketStatus = "Closed"
)

var TicketColumns = []TicketStatus{
	TicketOpen,
	TicketPending,
	TicketInProgress,
	TicketTesting,
	TicketClosed,
}

func ParseTicketStatus(s string) (TicketStatus, error) {
	for _, status := range TicketColumns {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", NewValidationError("status", "must be one of Open, Pending, In Progress, Testing, Closed")
}

type Ticket struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Title     string       `json:"title"`
	Category  string       `json:"category"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

func (t *Ticket) GetID() string    { return t.ID }
func (t *Ticket) SetID(id string)  { t.ID = id }
func (t *Ticket) OwnerRef() string { return t.UserID }

// TicketComment is append-only.
type TicketComment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *TicketComment) GetID() string   { return c.ID }
func (c *TicketComment) SetID(id string) { c.ID = id }
