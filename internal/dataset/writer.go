package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Save writes records to path in the format implied by its extension.
func Save(path string, records []TransferRecord) error {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		data []byte
		err  error
	)
	switch ext {
	case ".json":
		data, err = json.MarshalIndent(records, "", "  ")
	case ".jsonl":
		data, err = marshalJSONL(records)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(records)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .json, .jsonl, .yaml)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func marshalJSONL(records []TransferRecord) ([]byte, error) {
	var buf bytes.Buffer
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
