package domain

import (
	"math"
	"strings"
)

type InvoiceLine struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

// Invoice is composed on request and never stored.
type Invoice struct {
	Number        string        `json:"number"`
	FacilityID    string        `json:"facility_id"`
	BillTo        string        `json:"bill_to"`
	IssuedOn      string        `json:"issued_on"`
	DueOn         string        `json:"due_on"`
	Lines         []InvoiceLine `json:"line_items"`
	TaxRate       float64       `json:"tax_rate"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
}

// ComposeInvoice fills in the line, tax and grand totals. Tax is rounded
// half away from zero to the cent.
func ComposeInvoice(inv Invoice) (Invoice, error) {
	if len(inv.Lines) == 0 {
		return Invoice{}, NewValidationError("line_items", "must not be empty")
	}
	if inv.TaxRate < 0 || inv.TaxRate > 1 {
		return Invoice{}, NewValidationError("tax_rate", "must be between 0 and 1")
	}

	lines := make([]InvoiceLine, len(inv.Lines))
	var subtotal int64
	for i, line := range inv.Lines {
		if strings.TrimSpace(line.Description) == "" {
			return Invoice{}, NewValidationError("description", "is required")
		}
		if line.Quantity <= 0 {
			return Invoice{}, NewValidationError("quantity", "must be positive")
		}
		if line.UnitPriceCents < 0 {
			return Invoice{}, NewValidationError("unit_price_cents", "must not be negative")
		}
		line.TotalCents = int64(line.Quantity) * line.UnitPriceCents
		subtotal += line.TotalCents
		lines[i] = line
	}

	inv.Lines = lines
	inv.SubtotalCents = subtotal
	inv.TaxCents = int64(math.Round(float64(subtotal) * inv.TaxRate))
	inv.TotalCents = inv.SubtotalCents + inv.TaxCents
	return inv, nil
}
