package domain

import (
	"math"
	"time"
)

// FeedSource is a configured syndication endpoint.
type FeedSource struct {
	Endpoint string `yaml:"endpoint"`
	Label    string `yaml:"label"`
}

// RawItem is one feed entry as extracted by a parser. SourceLabel is the
// configured feed label; Publisher is the entry's own source tag when present.
type RawItem struct {
	Title       string
	Link        string
	SourceLabel string
	Publisher   string
	PublishedAt *time.Time
}

// SignalItem is a RawItem that survived noise rejection.
type SignalItem struct {
	RawItem
	IsPrioritySignal bool
}

// ClassificationRecord is one entry of the classifier's JSON answer.
// SourceIndex is 1-based and unvalidated.
type ClassificationRecord struct {
	SourceIndex    int     `json:"index"`
	Title          string  `json:"title,omitempty"`
	Category       string  `json:"category"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// IntelligenceItem is the persisted market_trends row.
type IntelligenceItem struct {
	ID             int64
	SourceType     string
	Title          string
	Summary        string
	SentimentScore float64
	IsViral        bool
	SourceURL      string
	CreatedAt      time.Time
}

// Score recovers the 0-10 impact score from the stored sentiment, rounded
// to hide float noise from the /10 round trip.
func (i IntelligenceItem) Score() float64 {
	return math.Round(i.SentimentScore*10*1e6) / 1e6
}

// PersistStatus reports how the persist step ended.
type PersistStatus string

const (
	PersistSaved   PersistStatus = "saved"
	PersistNoItems PersistStatus = "no-items"
	PersistFailed  PersistStatus = "failed"
)

// PersistResult is returned by the reconcile-and-save step.
type PersistResult struct {
	Status PersistStatus
	Saved  int
	Items  []IntelligenceItem
}
