// Package relevance implements the keyword heuristics that run before any
// item reaches the language model.
package relevance

import (
	"slices"
	"strings"

	"MarketRadar/internal/domain"
)

// Rules configures the two filter stages.
type Rules struct {
	NoiseKeywords  []string
	SignalKeywords []string
	BypassLabels   []string
}

// Partition is the output of ClassifyNoiseSignal. Every input item lands in
// exactly one of the two slices.
type Partition struct {
	Signals []domain.SignalItem
	Noise   []domain.RawItem
}

// PriorityCount returns how many signals carry the priority tag.
func (p Partition) PriorityCount() int {
	n := 0
	for _, s := range p.Signals {
		if s.IsPrioritySignal {
			n++
		}
	}
	return n
}

// Filter applies noise rejection followed by priority tagging.
type Filter struct {
	noise  []string
	signal []string
	bypass map[string]struct{}
}

// NewFilter normalises the keyword lists once.
func NewFilter(rules Rules) *Filter {
	f := &Filter{
		noise:  normalize(rules.NoiseKeywords),
		signal: normalize(rules.SignalKeywords),
		bypass: make(map[string]struct{}, len(rules.BypassLabels)),
	}
	for _, label := range rules.BypassLabels {
		f.bypass[label] = struct{}{}
	}
	return f
}

// ClassifyNoiseSignal routes noisy titles to Noise unless the item's feed is
// bypass-listed, and tags the survivors.
func (f *Filter) ClassifyNoiseSignal(items []domain.RawItem) Partition {
	var out Partition
	for _, item := range items {
		title := strings.ToLower(item.Title)

		if containsAny(title, f.noise) && !f.bypassed(item) {
			out.Noise = append(out.Noise, item)
			continue
		}

		out.Signals = append(out.Signals, domain.SignalItem{
			RawItem:          item,
			IsPrioritySignal: containsAny(title, f.signal),
		})
	}
	return out
}

func (f *Filter) bypassed(item domain.RawItem) bool {
	_, ok := f.bypass[item.SourceLabel]
	return ok
}

// SelectBatch orders priority signals first, keeping arrival order within each
// group, and truncates to max. A non-positive max disables the cap.
func SelectBatch(signals []domain.SignalItem, max int) []domain.SignalItem {
	sorted := slices.Clone(signals)
	slices.SortStableFunc(sorted, func(a, b domain.SignalItem) int {
		switch {
		case a.IsPrioritySignal == b.IsPrioritySignal:
			return 0
		case a.IsPrioritySignal:
			return -1
		default:
			return 1
		}
	})
	if max > 0 && len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}

func containsAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
