package classifier

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"MarketRadar/internal/domain"
)

// ErrNoJSONArray is returned when the response holds no bracketed array.
var ErrNoJSONArray = errors.New("response contains no JSON array")

// cleanJSONResponse strips code fences and any prose around the outermost array.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// wireRecord tolerates numbers sent as strings; fields that do not decode
// are left at their zero value instead of failing the whole array.
type wireRecord struct {
	Index          looseNumber `json:"index"`
	Title          looseString `json:"title"`
	Category       looseString `json:"category"`
	Score          looseNumber `json:"score"`
	Reason         looseString `json:"reason"`
	Recommendation looseString `json:"recommendation"`
}

type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*n = looseNumber(v)
	}
	return nil
}

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	if string(b) != "null" {
		*s = looseString(strings.TrimSpace(string(b)))
	}
	return nil
}

// ParseRecords decodes the model's answer into classification records. Only
// JSON syntax is checked; indices and scores are passed through unvalidated.
func ParseRecords(text string) ([]domain.ClassificationRecord, error) {
	cleaned := cleanJSONResponse(text)
	if !strings.HasPrefix(cleaned, "[") {
		return nil, ErrNoJSONArray
	}

	var wire []wireRecord
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, err
	}

	records := make([]domain.ClassificationRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, domain.ClassificationRecord{
			SourceIndex:    int(w.Index),
			Title:          strings.TrimSpace(string(w.Title)),
			Category:       strings.TrimSpace(string(w.Category)),
			Score:          float64(w.Score),
			Reason:         strings.TrimSpace(string(w.Reason)),
			Recommendation: strings.TrimSpace(string(w.Recommendation)),
		})
	}
	return records, nil
}
