package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Service extracts text from book images using a local Ollama vision model.
type Service struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewService creates an OCR service against the given Ollama instance.
func NewService(baseURL, model string) *Service {
	return &Service{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func buildOCRPrompt() string {
	return `You are performing OCR (Optical Character Recognition) on a photo of a book cover.

Extract ALL visible text from the image exactly as it appears, preserving line breaks and order from top to bottom.

Provide ONLY the extracted text. Do not include phrases like "Here is the text:" or any commentary.`
}

// ExtractText runs OCR over imageData and returns the raw transcription.
func (s *Service) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	base64Image := base64.StdEncoding.EncodeToString(imageData)

	requestBody := map[string]interface{}{
		"model":  s.model,
		"prompt": buildOCRPrompt(),
		"images": []string{base64Image},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.0, // Zero temperature for exact OCR
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama API for OCR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode Ollama OCR response: %w", err)
	}

	slog.Info("Extracted OCR text", "model", s.model, "length", len(ollamaResp.Response))
	return ollamaResp.Response, nil
}
