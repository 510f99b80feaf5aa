package usecase

import (
	"strings"

	"MarketRadar/internal/domain"
)

// Dedupe keeps the first item for each exact (trimmed, case-sensitive) title,
// preserving arrival order.
func Dedupe(items []domain.RawItem) []domain.RawItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		key := strings.TrimSpace(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}
