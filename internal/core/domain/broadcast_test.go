package domain

import (
	"reflect"
	"testing"
)

func TestComposeBroadcast(t *testing.T) {
	tests := []struct {
		name        string
		facility    Facility
		subject     string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "full_signature",
			facility:    Facility{Name: "Sunflower", Email: "hi@sunflower.example", Phone: "021 555 0101"},
			subject:     "Closed Friday",
			wantSubject: "Closed Friday - Sunflower",
			wantBody:    "We are closed.\n\nKind regards,\nSunflower\nEmail: hi@sunflower.example\nPhone: 021 555 0101",
		},
		{
			name:        "no_contact_details",
			facility:    Facility{Name: "Baobab"},
			subject:     "  ",
			wantSubject: "Message - Baobab",
			wantBody:    "We are closed.\n\nKind regards,\nBaobab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := ComposeBroadcast(&tt.facility, tt.subject, " We are closed. ")
			if subject != tt.wantSubject {
				t.Errorf("subject: expected %q, got %q", tt.wantSubject, subject)
			}
			if body != tt.wantBody {
				t.Errorf("body: expected %q, got %q", tt.wantBody, body)
			}
		})
	}
}

func TestUniqueEmails(t *testing.T) {
	got := UniqueEmails([]string{"a@example.com", "", " A@example.com ", "b@example.com", "  "})
	want := []string{"a@example.com", "b@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseBroadcastAudience(t *testing.T) {
	if a, err := ParseBroadcastAudience(" Parents "); err != nil || a != AudienceParents {
		t.Errorf("expected parents, got %q %v", a, err)
	}
	if _, err := ParseBroadcastAudience("everyone"); err == nil {
		t.Error("unknown audience must be rejected")
	}
}
