package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const jsonOnlyInstruction = "You respond ONLY with a pure JSON array, without any additional text or markdown code block."

// Category is one entry of the news taxonomy.
type Category struct {
	Name        string
	Description string
}

// NewsPromptOptions shapes the strategic news prompt.
type NewsPromptOptions struct {
	AnalystRole    string
	Categories     []Category
	ScoreThreshold float64
	AlwaysInclude  []string
}

// NewsPrompt enumerates the batch as "{i}. [{label}] {title}" with 1-based indices.
func NewsPrompt(items []domain.SignalItem, opts NewsPromptOptions) ports.Prompt {
	role := opts.AnalystRole
	if role == "" {
		role = "a senior retail strategy analyst"
	}

	var list strings.Builder
	for i, item := range items {
		fmt.Fprintf(&list, "%d. [%s] %s\n", i+1, item.SourceLabel, item.Title)
	}

	var cats strings.Builder
	for i, c := range opts.Categories {
		fmt.Fprintf(&cats, "%d. %s - %s\n", i+1, c.Name, c.Description)
	}

	threshold := strconv.FormatFloat(opts.ScoreThreshold, 'f', -1, 64)

	var rules strings.Builder
	rules.WriteString("1. Analyse every item and decide its category.\n")
	rules.WriteString("2. Give an impact score (0-10) for the business impact on the company.\n")
	if len(opts.AlwaysInclude) > 0 {
		always := strings.Join(opts.AlwaysInclude, ", ")
		fmt.Fprintf(&rules, "3. For all other categories, ONLY return items with score > %s.\n", threshold)
		fmt.Fprintf(&rules, "4. For %s, return EVERY item in that category, whatever its score.\n", always)
		fmt.Fprintf(&rules, "5. Give an actionable recommendation (may be empty for %s).\n", always)
	} else {
		fmt.Fprintf(&rules, "3. ONLY return items with score > %s.\n", threshold)
		rules.WriteString("4. Give an actionable recommendation.\n")
		rules.WriteString("5. Keep the reason short.\n")
	}
	rules.WriteString("6. ALWAYS include the item number from the list above as \"index\" and repeat its title as \"title\".\n")

	user := fmt.Sprintf(`Classify and analyse the following news items collectively.

CATEGORIES:
%s
NEWS ITEMS:
%s
INSTRUCTIONS:
%s
OUTPUT FORMAT (pure JSON array):
[{"index": 1, "title": "news title", "category": "%s", "score": 9, "reason": "short reason", "recommendation": "action"}]
If nothing qualifies, return an empty array [].`,
		cats.String(), list.String(), rules.String(), firstCategory(opts.Categories))

	return ports.Prompt{
		System: fmt.Sprintf("You are %s. %s", role, jsonOnlyInstruction),
		User:   user,
	}
}

// ReviewPrompt bundles customer reviews for sentiment classification.
func ReviewPrompt(reviews []domain.RawReview) ports.Prompt {
	var list strings.Builder
	for i, r := range reviews {
		fmt.Fprintf(&list, "Review #%d: %q (Rating: %d/5)\n", i+1, r.Comment, r.Rating)
	}

	user := fmt.Sprintf(`Classify the following %d reviews into operational sentiment categories.

TARGET CATEGORIES:
1. %s (praise, satisfaction, general)
2. %s (complaints about items out of stock, empty or incomplete)
3. %s (complaints about slow, rude or wrong service, queues, wrong medicine)

REVIEWS:
%s
INSTRUCTIONS:
- Judge by the context of the comment.
- Ignore the numeric rating, focus on the text.
- Return a JSON array with a classification for EVERY review, in input order.

OUTPUT FORMAT (pure JSON array):
[{"index": 1, "category": "%s"}, {"index": 2, "category": "%s"}]`,
		len(reviews),
		domain.SentimentPositive, domain.SentimentStockIssue, domain.SentimentServiceIssue,
		list.String(),
		domain.SentimentPositive, domain.SentimentStockIssue)

	return ports.Prompt{
		System: "You are the customer experience manager of a pharmacy chain. " + jsonOnlyInstruction,
		User:   user,
	}
}

func firstCategory(categories []Category) string {
	if len(categories) == 0 {
		return "CATEGORY"
	}
	return categories[0].Name
}
