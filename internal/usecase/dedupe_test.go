package usecase

import (
	"slices"
	"testing"

	"MarketRadar/internal/domain"
)

func titles(items []domain.RawItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	items := append(rawItems("bpom", "Obat X Ditarik", "Harga naik"), rawItems("google", "Obat X Ditarik", "Apotek baru")...)

	got := Dedupe(items)
	want := []string{"Obat X Ditarik", "Harga naik", "Apotek baru"}
	if !slices.Equal(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}
	if got[0].SourceLabel != "bpom" {
		t.Fatalf("expected the first source to win, got %q", got[0].SourceLabel)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	items := rawItems("a", "x", "y", "x", " y ", "Y", "z")
	once := Dedupe(items)
	twice := Dedupe(once)
	if !slices.Equal(titles(once), titles(twice)) {
		t.Fatalf("dedupe not idempotent: %v vs %v", titles(once), titles(twice))
	}
	if want := []string{"x", "y", "Y", "z"}; !slices.Equal(titles(once), want) {
		t.Fatalf("titles = %v, want %v", titles(once), want)
	}
}

func TestDedupeEmpty(t *testing.T) {
	t.Parallel()

	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
