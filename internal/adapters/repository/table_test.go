package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")
	tests := []struct {
		name      string
		err       error
		wantIs    error
		wantField string
	}{
		{name: "nil", err: nil},
		{name: "not_a_pq_error", err: plain, wantIs: plain},
		{name: "unique_violation", err: &pq.Error{Code: "23505"}, wantIs: domain.ErrConflict},
		{name: "foreign_key_by_constraint", err: &pq.Error{Code: "23503", Constraint: "students_facility_id_fkey"}, wantField: "facility_id"},
		{name: "foreign_key_by_column", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23503", Column: "owner_id"}), wantField: "owner_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "student")
			if tt.wantField != "" {
				var verr *domain.ValidationError
				if !errors.As(got, &verr) || verr.Field != tt.wantField {
					t.Errorf("expected validation error on %s, got %v", tt.wantField, got)
				}
				return
			}
			if tt.wantIs == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.wantIs) {
				t.Errorf("expected %v, got %v", tt.wantIs, got)
			}
		})
	}
}
