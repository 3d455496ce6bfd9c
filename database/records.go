package database

import (
	"fmt"
	"strings"

	"github.com/siherrmann/casegraph/model"
)

// recordFromRow normalizes one result row into a DocumentRecord.
// Null text columns become empty strings and the id is stringified.
func recordFromRow(row map[string]any, source model.Source) (*model.DocumentRecord, error) {
	id, ok := row["id"]
	if !ok || id == nil {
		return nil, fmt.Errorf("row has no id")
	}

	score, err := toFloat64(row["score"])
	if err != nil {
		return nil, fmt.Errorf("invalid score for %v: %w", id, err)
	}

	record := &model.DocumentRecord{
		ID:      fmt.Sprint(id),
		Title:   textValue(row["title"]),
		Content: textValue(row["content"]),
		WebURL:  textValue(row["webUrl"]),
		Path:    textValue(row["path"]),
		Kind:    model.Kind(textValue(row["kind"])),
		Score:   score,
		Source:  source,
	}

	if matched, ok := row["matched_keywords"]; ok && matched != nil {
		record.MatchedKeywords = stringList(matched)
	}

	return record, nil
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("score is null")
	default:
		return 0, fmt.Errorf("unexpected score type %T", value)
	}
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, textValue(item))
		}
		return out
	default:
		return nil
	}
}

// toFloat64s converts an embedding for the neo4j driver, which has no float32 list type.
func toFloat64s(vector []float32) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}

func cleanKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		out = append(out, keyword)
	}
	return out
}

func nodeKind(kind model.Kind) model.Kind {
	if kind == "" {
		return model.KindUnknown
	}
	return kind
}
