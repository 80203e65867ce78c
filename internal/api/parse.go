package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// The backend is loose about response shapes: the identifier of a created
// response can appear under several field names or only in the Location
// header, transcripts come back under different keys, and error bodies can
// be JSON or plain text. These normalizers pin the precedence order down
// in one place.

// responseIDFields in precedence order.
var responseIDFields = []string{"id", "_id", "responseId", "response_id"}

// ExtractResponseID resolves the created response's identifier from the
// body fields first, then the Location header. Returns "" when no
// identifier could be recovered.
func ExtractResponseID(body []byte, header http.Header) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, name := range responseIDFields {
			if id := stringField(fields, name); id != "" {
				return id
			}
		}
	}

	if location := header.Get("Location"); location != "" {
		trimmed := strings.TrimRight(location, "/")
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
			return trimmed[idx+1:]
		}
		return trimmed
	}

	return ""
}

// transcriptFields in precedence order.
var transcriptFields = []string{"transcription", "text", "transcript"}

// ExtractTranscript resolves recognized text from a transcription response:
// known object fields first, then a bare JSON string, then "".
func ExtractTranscript(body []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, name := range transcriptFields {
			if text := stringField(fields, name); text != "" {
				return text
			}
		}
		return ""
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	return ""
}

// errorMessageFields in precedence order.
var errorMessageFields = []string{"detail", "message", "error"}

// ExtractErrorMessage recovers a human-readable message from a non-2xx
// body, falling back to the raw text for non-JSON bodies.
func ExtractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, name := range errorMessageFields {
			if msg := stringField(fields, name); msg != "" {
				return msg
			}
		}
		return ""
	}

	return strings.TrimSpace(string(body))
}

func stringField(fields map[string]interface{}, name string) string {
	value, ok := fields[name]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
