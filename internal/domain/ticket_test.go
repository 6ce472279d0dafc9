package domain

import (
	"testing"
	"time"
)

func TestSourceLabel(t *testing.T) {
	cases := []struct {
		system int
		want   string
	}{
		{1, "SABRE"},
		{2, "AMADEUS"},
		{7, "KIU"},
		{8, "KONTROL"},
		{3, "GDS 3"},
		{0, "GDS 0"},
	}
	for _, tc := range cases {
		if got := SourceLabel(tc.system); got != tc.want {
			t.Fatalf("SourceLabel(%d) = %q, want %q", tc.system, got, tc.want)
		}
	}
}

func TestFilterDatePrefersDeparture(t *testing.T) {
	departure := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	arrival := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

	both := Ticket{DepartureAt: &departure, ArrivalAt: &arrival}
	if got := both.FilterDate(); got == nil || !got.Equal(departure) {
		t.Fatalf("expected departure, got %v", got)
	}

	arrivalOnly := Ticket{ArrivalAt: &arrival}
	if got := arrivalOnly.FilterDate(); got == nil || !got.Equal(arrival) {
		t.Fatalf("expected arrival fallback, got %v", got)
	}

	neither := Ticket{}
	if got := neither.FilterDate(); got != nil {
		t.Fatalf("expected nil for dateless ticket, got %v", got)
	}
}
