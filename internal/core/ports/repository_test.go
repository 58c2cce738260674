package ports

import (
	"testing"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

func TestListFilter_Matches(t *testing.T) {
	s1 := &domain.Student{ID: "s1", FacilityID: "f1"}
	ev := &domain.Event{ID: "e1", OwnerID: "u1"}

	if !(ListFilter{}).Matches(s1) {
		t.Error("empty filter must match everything")
	}
	if !(ListFilter{FacilityIDs: []string{"f1"}}).Matches(s1) {
		t.Error("in-scope student must match")
	}
	if (ListFilter{FacilityIDs: []string{"f2"}}).Matches(s1) {
		t.Error("out-of-scope student must not match")
	}
	if (ListFilter{FacilityIDs: []string{}}).Matches(s1) {
		t.Error("empty scope must match nothing")
	}
	if (ListFilter{FacilityIDs: []string{"f1"}}).Matches(ev) {
		t.Error("unscoped record type must not pass a facility predicate")
	}
	if !(ListFilter{OwnerID: "u1"}).Matches(ev) || (ListFilter{OwnerID: "u2"}).Matches(ev) {
		t.Error("owner predicate mismatch")
	}
}
