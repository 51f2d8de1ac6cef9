package booking

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.Total != 0 || m.Completed != 0 {
		t.Fatalf("expected zero counts, got total=%d completed=%d", m.Total, m.Completed)
	}
	if !m.CompletionRate.IsZero() || !m.Revenue.IsZero() {
		t.Fatalf("expected zero rate and revenue, got rate=%s revenue=%s", m.CompletionRate, m.Revenue)
	}
}

func TestComputeMetrics_RevenueAndRate(t *testing.T) {
	in := []Booking{
		{Status: StatusCompleted, Amount: "$120"},
		{Status: StatusCompleted, Amount: "$80"},
		{Status: StatusCancelled, Amount: "$50"},
	}
	m := ComputeMetrics(in)

	if m.Total != 3 || m.Completed != 2 {
		t.Fatalf("expected total=3 completed=2, got total=%d completed=%d", m.Total, m.Completed)
	}
	wantRate := decimal.NewFromInt(2).Div(decimal.NewFromInt(3))
	if !m.CompletionRate.Equal(wantRate) {
		t.Fatalf("expected rate %s, got %s", wantRate, m.CompletionRate)
	}
	if !m.Revenue.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected revenue 200, got %s", m.Revenue)
	}
}

func TestComputeMetrics_SkipsNonCompletedRevenue(t *testing.T) {
	in := []Booking{
		{Status: StatusConfirmed, Amount: "$999"},
		{Status: StatusCompleted, Amount: "150.50"},
	}
	m := ComputeMetrics(in)
	if !m.Revenue.Equal(decimal.NewFromFloat(150.5)) {
		t.Fatalf("expected revenue 150.5, got %s", m.Revenue)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want decimal.Decimal
	}{
		{"$120", decimal.NewFromInt(120)},
		{"120.50", decimal.NewFromFloat(120.5)},
		{"€80", decimal.NewFromInt(80)},
		{" $45 ", decimal.NewFromInt(45)},
		{"", decimal.Zero},
		{"n/a", decimal.Zero},
		{"$", decimal.Zero},
	}
	for _, c := range cases {
		if got := parseAmount(c.in); !got.Equal(c.want) {
			t.Fatalf("parseAmount(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}
