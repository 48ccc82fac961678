package domain

import "testing"

func TestLoadImageTable(t *testing.T) {
	t.Parallel()

	table, err := LoadImageTable()
	if err != nil {
		t.Fatalf("LoadImageTable failed: %v", err)
	}
	if len(table) == 0 {
		t.Fatalf("expected embedded image table to have entries")
	}

	again, err := LoadImageTable()
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if len(again) != len(table) {
		t.Fatalf("expected cached table, got %d vs %d entries", len(again), len(table))
	}
}

func TestParseImageTableRejectsNonObject(t *testing.T) {
	t.Parallel()

	if _, err := ParseImageTable([]byte(`["a","b"]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
}
