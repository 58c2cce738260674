package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

const invoiceTermDays = 30

type InvoiceService struct {
	facilities *EntityService[*domain.Facility]
}

func NewInvoiceService(facilities *EntityService[*domain.Facility]) *InvoiceService {
	return &InvoiceService{facilities: facilities}
}

// Compose totals an invoice for one of the session's facilities. Missing
// number and dates get defaults.
func (s *InvoiceService) Compose(ctx context.Context, sess *domain.Session, inv domain.Invoice) (domain.Invoice, error) {
	if inv.FacilityID == "" {
		return domain.Invoice{}, domain.NewValidationError("facility_id", "is required")
	}
	if _, err := s.facilities.Get(ctx, sess, inv.FacilityID); err != nil {
		return domain.Invoice{}, err
	}

	today := time.Now().UTC()
	if inv.IssuedOn == "" {
		inv.IssuedOn = today.Format(time.DateOnly)
	} else if !domain.ValidDate(inv.IssuedOn) {
		return domain.Invoice{}, domain.NewValidationError("issued_on", "must be YYYY-MM-DD")
	}
	if inv.DueOn == "" {
		issued, _ := time.Parse(time.DateOnly, inv.IssuedOn)
		inv.DueOn = issued.AddDate(0, 0, invoiceTermDays).Format(time.DateOnly)
	} else if !domain.ValidDate(inv.DueOn) {
		return domain.Invoice{}, domain.NewValidationError("due_on", "must be YYYY-MM-DD")
	}
	// Both are YYYY-MM-DD here, so string order is date order.
	if inv.DueOn < inv.IssuedOn {
		return domain.Invoice{}, domain.NewValidationError("due_on", "must not be before issued_on")
	}
	if inv.Number == "" {
		inv.Number = fmt.Sprintf("INV-%s-%s", today.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
	}
	return domain.ComposeInvoice(inv)
}
