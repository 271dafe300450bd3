package vision

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Brittles42/Shelfie/internal/models"
)

const identifyPrompt = `What book is this? Return ONLY JSON: {"title": "...", "author": "..."}`

// Identifier guesses a title/author pair from a cover photo using Gemini.
type Identifier struct {
	apiKey string
	model  string
}

// New returns an identifier. An empty apiKey is allowed: Identify then
// short-circuits to nil without attempting a call.
func New(apiKey, model string) *Identifier {
	return &Identifier{
		apiKey: apiKey,
		model:  model,
	}
}

// Configured reports whether a credential is available.
func (g *Identifier) Configured() bool {
	return g.apiKey != ""
}

// Identify asks the model to name the book on the cover. A nil result means
// "could not identify" and is a normal outcome, never an error: missing
// credential, transport failure, and an unparseable response all land here
// so the caller can fall back to OCR.
func (g *Identifier) Identify(ctx context.Context, imageData []byte) *models.Guess {
	if g.apiKey == "" {
		return nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		slog.Warn("Failed to create Gemini client", "err", err)
		return nil
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(100)

	resp, err := model.GenerateContent(ctx,
		genai.Text(identifyPrompt),
		genai.ImageData("jpeg", imageData),
	)
	if err != nil {
		slog.Warn("Gemini identification failed", "err", err)
		return nil
	}

	text := firstTextPart(resp)
	guess := ParseGuess(text)
	if guess == nil {
		slog.Info("Gemini response had no usable guess", "length", len(text))
		return nil
	}

	slog.Info("Identified book from cover", "title", guess.Title, "author", guess.Author)
	return guess
}

func firstTextPart(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt)
	}
	return ""
}

// ParseGuess extracts the first well-formed {"title","author"} object from a
// free-text model response, tolerating code fences and surrounding
// commentary. A missing or empty title means no guess.
func ParseGuess(text string) *models.Guess {
	start := strings.Index(text, "{")
	if start == -1 {
		return nil
	}
	end := strings.LastIndex(text, "}")
	if end <= start {
		return nil
	}

	var guess models.Guess
	if err := json.Unmarshal([]byte(text[start:end+1]), &guess); err != nil {
		return nil
	}
	if strings.TrimSpace(guess.Title) == "" {
		return nil
	}

	guess.Title = strings.TrimSpace(guess.Title)
	guess.Author = strings.TrimSpace(guess.Author)
	return &guess
}
