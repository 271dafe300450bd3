package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Brittles42/Shelfie/internal/config"
	"github.com/Brittles42/Shelfie/internal/dataset"
	"github.com/Brittles42/Shelfie/internal/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import books from a JSON, JSONL, YAML, or Parquet file",
		Long: `Imports records into the collection without re-sorting: the imported
block lands on top in file order, and backdated addedAt values are kept
as-is. Only the timeline view re-sorts for display.

Records without a title are skipped. Missing IDs and timestamps are
assigned at import time.`,
		Example: `  shelfie import books.yaml
  shelfie import export.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			bookStore := store.Open(cfg.DataFile)

			records, err := dataset.Load(args[0])
			if err != nil {
				return err
			}

			imported := 0
			skipped := 0
			// Walk backwards so the file's first record ends up at
			// index 0 after the prepends.
			for i := len(records) - 1; i >= 0; i-- {
				book := records[i].ToBook()
				if strings.TrimSpace(book.Title) == "" {
					slog.Warn("Skipping record without title", "index", i)
					skipped++
					continue
				}
				if book.ID == "" {
					book.ID = uuid.NewString()
				}
				if book.AddedAt.IsZero() {
					book.AddedAt = time.Now()
				}
				if err := bookStore.Add(book); err != nil {
					return fmt.Errorf("failed to import record %d: %w", i, err)
				}
				imported++
			}

			fmt.Printf("Imported %d books (%d skipped)\n", imported, skipped)
			return nil
		},
	}

	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the collection to a JSON, JSONL, or YAML file",
		Example: `  shelfie export books.yaml
  shelfie export backup.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			bookStore := store.Open(cfg.DataFile)

			books := bookStore.List()
			records := make([]dataset.TransferRecord, 0, len(books))
			for _, book := range books {
				records = append(records, dataset.FromBook(book))
			}

			if err := dataset.Save(args[0], records); err != nil {
				return err
			}

			fmt.Printf("Exported %d books to %s\n", len(records), args[0])
			return nil
		},
	}

	return cmd
}
