package sinks

import (
	"strings"
	"time"
)

const bodySnippetLimit = 2048

// Event is the serialized form of one request/response trace. The
// authorization value arrives already redacted; sinks never see raw secrets.
type Event struct {
	Operation     string    `json:"operation"`
	Method        string    `json:"method"`
	URL           string    `json:"url"`
	Authorization string    `json:"authorization,omitempty"`
	StatusCode    int       `json:"status_code,omitempty"`
	Status        string    `json:"status,omitempty"`
	Error         string    `json:"error,omitempty"`
	Body          string    `json:"body,omitempty"`
	ObservedAt    time.Time `json:"observed_at"`
}

// BodySnippet trims a response body for inclusion in an event so queue and
// webhook payloads stay small.
func BodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > bodySnippetLimit {
		body = body[:bodySnippetLimit]
	}
	return strings.TrimSpace(string(body))
}
