package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
	"github.com/AchilleasB/creche-admin/console-service/internal/mocks"
)

func TestScopeService_CachesUntilInvalidated(t *testing.T) {
	assignments := mocks.NewMockAssignmentRepository()
	assignments.Assign("u1", "f2", "f1", "f1")
	svc := services.NewScopeService(assignments, memory.NewSessionStore(), time.Minute)
	ctx := context.Background()

	scope, err := svc.Resolve(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scope.FacilityIDs) != 2 || scope.FacilityIDs[0] != "f1" {
		t.Errorf("expected deduplicated sorted scope, got %v", scope.FacilityIDs)
	}

	assignments.Assign("u1", "f3")
	if scope, _ = svc.Resolve(ctx, "u1"); scope.Contains("f3") {
		t.Error("expected cached scope before invalidation")
	}
	if assignments.LookupCalls != 1 {
		t.Errorf("expected 1 lookup, got %d", assignments.LookupCalls)
	}

	if err := svc.Invalidate(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if scope, _ = svc.Resolve(ctx, "u1"); !scope.Contains("f3") || scope.Contains("f1") {
		t.Errorf("expected fresh scope [f3], got %v", scope.FacilityIDs)
	}
}

func TestScopeService_LookupFailureYieldsEmptyScope(t *testing.T) {
	assignments := mocks.NewMockAssignmentRepository()
	assignments.LookupError = context.DeadlineExceeded
	svc := services.NewScopeService(assignments, nil, time.Minute)

	scope, err := svc.Resolve(context.Background(), "u1")
	if !errors.Is(err, domain.ErrScopeUnavailable) {
		t.Errorf("expected scope unavailable, got %v", err)
	}
	if !scope.IsEmpty() {
		t.Errorf("failed lookups must not grant facilities, got %v", scope.FacilityIDs)
	}

	if _, err := svc.Resolve(context.Background(), ""); !errors.Is(err, domain.ErrScopeUnavailable) {
		t.Errorf("blank identity: expected scope unavailable, got %v", err)
	}
}
