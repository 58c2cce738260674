package handler

import (
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type InvoiceLineRequest struct {
	Description    string `json:"description" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
}

type InvoiceRequest struct {
	Number     string               `json:"number"`
	FacilityID string               `json:"facility_id" validate:"required"`
	BillTo     string               `json:"bill_to" validate:"required"`
	IssuedOn   string               `json:"issued_on" validate:"omitempty,datetime=2006-01-02"`
	DueOn      string               `json:"due_on" validate:"omitempty,datetime=2006-01-02"`
	TaxRate    float64              `json:"tax_rate" validate:"gte=0,lte=1"`
	LineItems  []InvoiceLineRequest `json:"line_items" validate:"required,min=1,dive"`
}

func (h *InvoiceHandler) Compose(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req InvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines := make([]domain.InvoiceLine, len(req.LineItems))
	for i, l := range req.LineItems {
		lines[i] = domain.InvoiceLine{Description: l.Description, Quantity: l.Quantity, UnitPriceCents: l.UnitPriceCents}
	}
	inv, err := h.invoices.Compose(r.Context(), sess, domain.Invoice{
		Number:     req.Number,
		FacilityID: req.FacilityID,
		BillTo:     req.BillTo,
		IssuedOn:   req.IssuedOn,
		DueOn:      req.DueOn,
		TaxRate:    req.TaxRate,
		Lines:      lines,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
