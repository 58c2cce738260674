package domain

import "testing"

func TestComposeInvoice(t *testing.T) {
	inv, err := ComposeInvoice(Invoice{
		Number:  "INV-001",
		TaxRate: 0.15,
		Lines: []InvoiceLine{
			{Description: "Monthly fee", Quantity: 2, UnitPriceCents: 350000},
			{Description: "Meals", Quantity: 3, UnitPriceCents: 3333},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.Lines[0].TotalCents != 700000 || inv.Lines[1].TotalCents != 9999 {
		t.Errorf("unexpected line totals: %+v", inv.Lines)
	}
	if inv.SubtotalCents != 709999 {
		t.Errorf("expected subtotal 709999, got %d", inv.SubtotalCents)
	}
	if inv.TaxCents != 106500 {
		t.Errorf("expected tax 106500, got %d", inv.TaxCents)
	}
	if inv.TotalCents != 816499 {
		t.Errorf("expected total 816499, got %d", inv.TotalCents)
	}
}

func TestComposeInvoice_Rejects(t *testing.T) {
	cases := map[string]Invoice{
		"no lines":      {},
		"zero quantity": {Lines: []InvoiceLine{{Description: "x", Quantity: 0}}},
		"blank line":    {Lines: []InvoiceLine{{Quantity: 1}}},
		"bad tax":       {TaxRate: 2, Lines: []InvoiceLine{{Description: "x", Quantity: 1}}},
	}
	for name, inv := range cases {
		if _, err := ComposeInvoice(inv); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
