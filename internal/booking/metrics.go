package booking

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Metrics is the derived summary over a set of bookings.
type Metrics struct {
	Total          int             `json:"total"`
	Completed      int             `json:"completed"`
	CompletionRate decimal.Decimal `json:"completionRate"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// ComputeMetrics reduces bookings to totals, completion rate and revenue. It
// is a pure function: no store access, deterministic for a given input.
// Revenue sums the Amount of completed bookings; a missing or non-numeric
// amount counts as zero.
func ComputeMetrics(bookings []Booking) Metrics {
	m := Metrics{
		Total:          len(bookings),
		CompletionRate: decimal.Zero,
		Revenue:        decimal.Zero,
	}
	for _, b := range bookings {
		if b.Status != StatusCompleted {
			continue
		}
		m.Completed++
		m.Revenue = m.Revenue.Add(parseAmount(b.Amount))
	}
	if m.Total > 0 {
		m.CompletionRate = decimal.NewFromInt(int64(m.Completed)).
			Div(decimal.NewFromInt(int64(m.Total)))
	}
	return m
}

// parseAmount reads a currency string like "$120" or "120.50", stripping one
// leading symbol. Anything unparseable is worth zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.TrimLeft(s, "$€£")
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
