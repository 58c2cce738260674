package domain

import (
	"fmt"
	"strings"
	"time"
)

type BroadcastAudience string

const (
	AudienceStaff   BroadcastAudience = "staff"
	AudienceParents BroadcastAudience = "parents"
)

func ParseBroadcastAudience(s string) (BroadcastAudience, error) {
	switch a := BroadcastAudience(strings.ToLower(strings.TrimSpace(s))); a {
	case AudienceStaff, AudienceParents:
		return a, nil
	}
	return "", NewValidationError("audience", "must be staff or parents")
}

// Broadcast is one message sent to every staff member or parent of a facility.
type Broadcast struct {
	ID             string            `json:"id"`
	FacilityID     string            `json:"facility_id"`
	Audience       BroadcastAudience `json:"audience"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	RecipientCount int               `json:"recipient_count"`
	Recipients     []string          `json:"-"`
	RequestedAt    time.Time         `json:"requested_at"`
}

// ComposeBroadcast tags the subject with the facility name and signs the
// message with the facility's contact details.
func ComposeBroadcast(f *Facility, subject, message string) (string, string) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Message"
	}

	var sig strings.Builder
	sig.WriteString("Kind regards,\n")
	sig.WriteString(f.Name)
	if f.Email != "" {
		fmt.Fprintf(&sig, "\nEmail: %s", f.Email)
	}
	if f.Phone != "" {
		fmt.Fprintf(&sig, "\nPhone: %s", f.Phone)
	}

	return subject + " - " + f.Name, strings.TrimSpace(message) + "\n\n" + sig.String()
}

// UniqueEmails trims, drops blanks and removes case-insensitive duplicates,
// keeping first-seen order.
func UniqueEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
