package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	// Telegram rejects messages longer than this.
	maxMessageRunes = 4096
	maxTitleRunes   = 300
	maxSummaryRunes = 600
)

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	botToken     string
	chatID       string
	apiBase      string
	dashboardURL string
	client       *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID, dashboardURL string) *Notifier {
	return &Notifier{
		botToken:     botToken,
		chatID:       chatID,
		apiBase:      defaultAPIBase,
		dashboardURL: dashboardURL,
		client:       &http.Client{Timeout: 5 * time.Second},
	}
}

// WithAPIBase points the notifier at a different bot API host.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// PublishDigest posts a Markdown message to Telegram.
func (n *Notifier) PublishDigest(ctx context.Context, digest ports.Digest) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	text := FormatDigest(digest, n.dashboardURL)
	if text == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

// FormatDigest renders the digest as Telegram Markdown. Empty digests render
// as an empty string. Strategic items are added whole while they fit, so a
// long digest never cuts through a Markdown entity; the rest are counted in
// a footer that points at the dashboard.
func FormatDigest(digest ports.Digest, dashboardURL string) string {
	var footer string
	if dashboardURL != "" {
		footer = fmt.Sprintf("\n[Dashboard](%s)", dashboardURL)
	}

	var sb strings.Builder
	switch digest.Kind {
	case ports.DigestStrategic:
		if len(digest.Items) == 0 {
			return ""
		}
		fmt.Fprintf(&sb, "*%d critical strategic alerts*\n\n", len(digest.Items))
		used := utf8.RuneCountInString(sb.String()) + utf8.RuneCountInString(footer)
		for i, item := range digest.Items {
			block := formatItem(i+1, item)
			size := utf8.RuneCountInString(block)
			if left := len(digest.Items) - i - 1; left > 0 {
				size += utf8.RuneCountInString(moreLine(left))
			}
			if used+size > maxMessageRunes {
				sb.WriteString(moreLine(len(digest.Items) - i))
				break
			}
			sb.WriteString(block)
			used += utf8.RuneCountInString(block)
		}
	case ports.DigestCustomerPulse:
		if digest.Reviews == 0 {
			return ""
		}
		fmt.Fprintf(&sb, "*Customer pulse*: %d new reviews\n\n", digest.Reviews)
		fmt.Fprintf(&sb, "Positive: %d\n", digest.Categories[domain.SentimentPositive])
		fmt.Fprintf(&sb, "Stock issues: %d\n", digest.Categories[domain.SentimentStockIssue])
		fmt.Fprintf(&sb, "Service issues: %d\n", digest.Categories[domain.SentimentServiceIssue])
		fmt.Fprintf(&sb, "Neutral: %d\n", digest.Categories[domain.SentimentNeutral])
	default:
		return ""
	}

	sb.WriteString(footer)
	return sb.String()
}

func formatItem(n int, item domain.IntelligenceItem) string {
	var sb strings.Builder
	score := strconv.FormatFloat(item.Score(), 'f', -1, 64)
	fmt.Fprintf(&sb, "%d. *%s* (%s/10)\n", n, escape(item.SourceType), score)
	title := truncate(item.Title, maxTitleRunes)
	if item.SourceURL != "" {
		fmt.Fprintf(&sb, "[%s](%s)\n", escapeLinkText(title), item.SourceURL)
	} else {
		sb.WriteString(escape(title) + "\n")
	}
	if item.Summary != "" {
		sb.WriteString("_" + escape(truncate(item.Summary, maxSummaryRunes)) + "_\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func moreLine(n int) string {
	return fmt.Sprintf("+%d more, see dashboard\n", n)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeLinkText swaps brackets before escaping; inside link text a bracket
// would close the entity and an escaped one renders with its backslash.
func escapeLinkText(s string) string {
	return escape(strings.NewReplacer("[", "(", "]", ")").Replace(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
