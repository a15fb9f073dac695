package suggestions

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StripCodeFence убирает обёртку ```json ... ```, которую модели любят добавлять к JSON.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseSimilarIDs понимает и {"similar_ids": [...]}, и голый массив.
// Идентификаторы могут прийти числами или строками.
func ParseSimilarIDs(text string) ([]uint64, error) {
	raw := []byte(StripCodeFence(text))

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			SimilarIDs []json.RawMessage `json:"similar_ids"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("ответ не похож на список id: %w", err)
		}
		items = wrapped.SimilarIDs
	}

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		id, err := parseID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(item json.RawMessage) (uint64, error) {
	var n uint64
	if err := json.Unmarshal(item, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return 0, fmt.Errorf("неверный id %s", string(item))
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("неверный id %q: %w", s, err)
	}
	return n, nil
}

// ParseSteps понимает и {"steps": [...]}, и голый массив шагов.
func ParseSteps(text string) ([]GeneratedStep, error) {
	raw := []byte(StripCodeFence(text))

	var steps []GeneratedStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		var wrapped struct {
			Steps []GeneratedStep `json:"steps"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("ответ не похож на список шагов: %w", err)
		}
		steps = wrapped.Steps
	}
	return steps, nil
}
