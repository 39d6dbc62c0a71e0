package journal

import (
	"testing"

	"io.winapps.therapyjournal/internal/store"
)

func TestMonthKey(t *testing.T) {
	if got := MonthKey("2024-03-15"); got != "2024-03" {
		t.Errorf("MonthKey(2024-03-15) = %q, want 2024-03", got)
	}
	if got := MonthKey("2023-12-01"); got != "2023-12" {
		t.Errorf("MonthKey(2023-12-01) = %q, want 2023-12", got)
	}
}

func TestMonthKey_Malformed(t *testing.T) {
	if got := MonthKey("2024-03-xx"); got != "2024-03" {
		t.Errorf("MonthKey should fall back to prefix for malformed dates, got %q", got)
	}
	if got := MonthKey("bad"); got != "bad" {
		t.Errorf("MonthKey on a short malformed date = %q, want input back", got)
	}
}

func TestGroupByMonth(t *testing.T) {
	entries := []store.Entry{
		{ID: "1", Date: "2024-03-15"},
		{ID: "2", Date: "2024-03-01"},
		{ID: "3", Date: "2024-02-28"},
	}

	grouped := GroupByMonth(entries)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(grouped))
	}
	march := grouped["2024-03"]
	if len(march) != 2 || march[0].ID != "1" || march[1].ID != "2" {
		t.Errorf("2024-03 bucket wrong, got %+v", march)
	}
	if len(grouped["2024-02"]) != 1 {
		t.Errorf("2024-02 bucket wrong, got %+v", grouped["2024-02"])
	}

	// An entry must appear only under its own month
	for _, e := range grouped["2024-02"] {
		if e.ID != "3" {
			t.Errorf("entry %s leaked into wrong bucket", e.ID)
		}
	}
}

func TestGroupByMonth_Empty(t *testing.T) {
	grouped := GroupByMonth(nil)
	if len(grouped) != 0 {
		t.Errorf("expected empty map, got %v", grouped)
	}
}
