package llm

import (
	"encoding/json"
	"strings"
)

// extractor pulls completion text out of one known response shape. It
// returns ok=false when its shape is not present.
type extractor func(body map[string]any) (string, bool)

// extractors are tried in priority order; the first non-blank result wins.
// Supporting a new provider shape means appending here.
var extractors = []extractor{
	choiceMessageContent,
	choiceText,
	choiceDeltaContent,
	stoppedChoiceMessage,
	topLevelString("content"),
	topLevelString("response"),
}

// Normalize parses a raw provider body and extracts its completion text.
func Normalize(raw []byte) (string, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", &ProviderError{Class: ClassMalformed, Detail: "invalid JSON body", Err: err}
	}
	return NormalizeBody(body)
}

// NormalizeBody extracts trimmed completion text from a decoded body.
func NormalizeBody(body map[string]any) (string, error) {
	for _, extract := range extractors {
		text, ok := extract(body)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}

	if msg, ok := embeddedError(body); ok {
		return "", newMalformed("provider error: " + msg)
	}
	return "", newMalformed("no content in response")
}

func firstChoice(body map[string]any) (map[string]any, bool) {
	choices, ok := body["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil, false
	}
	choice, ok := choices[0].(map[string]any)
	return choice, ok
}

func stringAt(m map[string]any, keys ...string) (string, bool) {
	cur := m
	for i, key := range keys {
		if i == len(keys)-1 {
			s, ok := cur[key].(string)
			return s, ok
		}
		next, ok := cur[key].(map[string]any)
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}

func choiceMessageContent(body map[string]any) (string, bool) {
	choice, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	return stringAt(choice, "message", "content")
}

func choiceText(body map[string]any) (string, bool) {
	choice, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	return stringAt(choice, "text")
}

// choiceDeltaContent covers streaming-shaped payloads delivered as one blob.
func choiceDeltaContent(body map[string]any) (string, bool) {
	choice, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	return stringAt(choice, "delta", "content")
}

// stoppedChoiceMessage accepts a finished choice whose message content may be
// empty. A null content is read as the empty string.
func stoppedChoiceMessage(body map[string]any) (string, bool) {
	choice, ok := firstChoice(body)
	if !ok {
		return "", false
	}
	if reason, _ := choice["finish_reason"].(string); reason != "stop" {
		return "", false
	}
	msg, ok := choice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, _ := msg["content"].(string)
	return content, true
}

func topLevelString(key string) extractor {
	return func(body map[string]any) (string, bool) {
		return stringAt(body, key)
	}
}

func embeddedError(body map[string]any) (string, bool) {
	switch e := body["error"].(type) {
	case map[string]any:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg, true
		}
		return "unspecified error", true
	case string:
		if e != "" {
			return e, true
		}
	}
	return "", false
}
