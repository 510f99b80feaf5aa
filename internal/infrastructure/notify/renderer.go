// Package notify renders digests and delivers them by email.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const recommendationSeparator = " | Recommendation: "

// Message is a rendered digest with an HTML body and a plain text fallback.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer turns digests into email messages.
type Renderer struct {
	strategic     *template.Template
	customerPulse *template.Template
	dashboardURL  string
	threshold     float64
}

// NewRenderer parses the built-in templates. threshold is only displayed.
func NewRenderer(dashboardURL string, threshold float64) *Renderer {
	return &Renderer{
		strategic:     template.Must(template.New("strategic").Parse(strategicHTMLTemplate)),
		customerPulse: template.Must(template.New("customer-pulse").Parse(customerPulseHTMLTemplate)),
		dashboardURL:  dashboardURL,
		threshold:     threshold,
	}
}

type itemView struct {
	Category       string
	Score          string
	Title          string
	URL            string
	Reason         string
	Recommendation string
}

type strategicView struct {
	Count        int
	Threshold    string
	Items        []itemView
	DashboardURL string
}

type pulseView struct {
	Reviews      int
	Positive     int
	StockIssue   int
	ServiceIssue int
	Neutral      int
	DashboardURL string
}

// Render dispatches on the digest kind.
func (r *Renderer) Render(digest ports.Digest) (*Message, error) {
	switch digest.Kind {
	case ports.DigestStrategic:
		return r.renderStrategic(digest)
	case ports.DigestCustomerPulse:
		return r.renderCustomerPulse(digest)
	default:
		return nil, fmt.Errorf("unknown digest kind %q", digest.Kind)
	}
}

func (r *Renderer) renderStrategic(digest ports.Digest) (*Message, error) {
	view := strategicView{
		Count:        len(digest.Items),
		Threshold:    formatScore(r.threshold),
		DashboardURL: r.dashboardURL,
	}
	for _, item := range digest.Items {
		view.Items = append(view.Items, toItemView(item))
	}

	var buf bytes.Buffer
	if err := r.strategic.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render strategic template: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d high-impact market events (score > %s)\n", view.Count, view.Threshold)
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	for i, it := range view.Items {
		fmt.Fprintf(&sb, "%d. [%s] %s (Score: %s/10)\n", i+1, it.Category, it.Title, it.Score)
		if it.URL != "" {
			fmt.Fprintf(&sb, "   %s\n", it.URL)
		}
		if it.Reason != "" {
			fmt.Fprintf(&sb, "   %s\n", it.Reason)
		}
		if it.Recommendation != "" {
			fmt.Fprintf(&sb, "   Recommendation: %s\n", it.Recommendation)
		}
		sb.WriteString("\n")
	}
	if r.dashboardURL != "" {
		fmt.Fprintf(&sb, "Dashboard: %s\n", r.dashboardURL)
	}

	return &Message{
		Subject: fmt.Sprintf("[Market Radar] %d Critical Strategic Alerts Detected", view.Count),
		Text:    sb.String(),
		HTML:    buf.String(),
	}, nil
}

func (r *Renderer) renderCustomerPulse(digest ports.Digest) (*Message, error) {
	view := pulseView{
		Reviews:      digest.Reviews,
		Positive:     digest.Categories[domain.SentimentPositive],
		StockIssue:   digest.Categories[domain.SentimentStockIssue],
		ServiceIssue: digest.Categories[domain.SentimentServiceIssue],
		Neutral:      digest.Categories[domain.SentimentNeutral],
		DashboardURL: r.dashboardURL,
	}

	var buf bytes.Buffer
	if err := r.customerPulse.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render customer pulse template: %w", err)
	}

	text := fmt.Sprintf("Processed %d new customer reviews.\n\nPositive: %d\nStock issues: %d\nService issues: %d\nNeutral: %d\n",
		view.Reviews, view.Positive, view.StockIssue, view.ServiceIssue, view.Neutral)

	return &Message{
		Subject: fmt.Sprintf("[Market Radar] Customer Pulse: %d New Reviews Analyzed", view.Reviews),
		Text:    text,
		HTML:    buf.String(),
	}, nil
}

func toItemView(item domain.IntelligenceItem) itemView {
	reason, rec := item.Summary, ""
	if before, after, ok := strings.Cut(item.Summary, recommendationSeparator); ok {
		reason, rec = before, after
	} else if after, ok := strings.CutPrefix(item.Summary, "Recommendation: "); ok {
		reason, rec = "", after
	}
	return itemView{
		Category:       item.SourceType,
		Score:          formatScore(item.Score()),
		Title:          item.Title,
		URL:            item.SourceURL,
		Reason:         strings.TrimSpace(reason),
		Recommendation: strings.TrimSpace(rec),
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
