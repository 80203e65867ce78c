package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Transcribe uploads an audio payload as multipart form data (fields:
// file, context) and returns the recognized text. Any network failure or
// non-2xx status maps to ErrTranscriptionFailed so callers can substitute
// a placeholder instead of blocking the session.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte, transcribeContext string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := writer.WriteField("context", transcribeContext); err != nil {
		return "", fmt.Errorf("failed to write context field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.transcribeURL+"/api/transcribe", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrTranscriptionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, NewAPIError(resp.StatusCode, body))
	}

	text := ExtractTranscript(body)
	if text == "" {
		c.logger.Warn("Transcription response carried no text", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: empty transcript", ErrTranscriptionFailed)
	}

	c.logger.Info("Transcription received",
		"context", transcribeContext,
		"chars", len(text))

	return text, nil
}
