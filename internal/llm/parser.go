package llm

import (
	"fmt"
	"strings"

	"github.com/gmendes/orca/internal/common"
)

// extractJSONObject pulls the first JSON object out of a model reply.
// Models wrap JSON in markdown fences or prose often enough that decoding the
// raw reply directly is a losing game.
func extractJSONObject(content string) (string, error) {
	text := strings.TrimSpace(content)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", common.ErrMalformedResponse)
	}

	return text[start : end+1], nil
}

// clampScore forces a similarity score into the 0-100 range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
