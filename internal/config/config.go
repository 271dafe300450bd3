package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for Shelfie. Values come from the
// environment (a .env file is loaded by the root command if present).
type Config struct {
	// GeminiAPIKey enables the vision identifier. Empty means the vision
	// step is skipped entirely and capture falls back to OCR.
	GeminiAPIKey string

	// GeminiModel is the vision model used for cover identification.
	GeminiModel string

	// OllamaURL is the base URL of a local Ollama instance used for the
	// on-device OCR fallback.
	OllamaURL string

	// OllamaModel is the vision-capable model used for OCR.
	OllamaModel string

	// DataFile is the path of the persisted collection JSON.
	DataFile string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	cfg := Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		OllamaURL:    os.Getenv("OLLAMA_URL"),
		OllamaModel:  os.Getenv("OLLAMA_MODEL"),
		DataFile:     os.Getenv("SHELFIE_DATA_FILE"),
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}

	if cfg.OllamaURL == "" {
		cfg.OllamaURL = os.Getenv("OLLAMA_HOST")
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = "http://localhost:11434"
	}

	if cfg.OllamaModel == "" {
		cfg.OllamaModel = "mistral-small3.2:24b"
	}

	if cfg.DataFile == "" {
		cfg.DataFile = defaultDataFile()
	}

	return cfg
}

func defaultDataFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "shelfie_books.json"
	}
	return filepath.Join(dir, "shelfie", "books.json")
}
