package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Brittles42/Shelfie/internal/config"
	"github.com/Brittles42/Shelfie/internal/confirm"
	"github.com/Brittles42/Shelfie/internal/models"
	"github.com/Brittles42/Shelfie/internal/ocr"
	"github.com/Brittles42/Shelfie/internal/pipeline"
	"github.com/Brittles42/Shelfie/internal/resolver"
	"github.com/Brittles42/Shelfie/internal/store"
	"github.com/Brittles42/Shelfie/internal/vision"
)

func newScanCmd() *cobra.Command {
	var (
		isbn        string
		title       string
		scanBarcode bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "scan [image]",
		Short: "Capture a book from a cover photo, barcode, or title",
		Long: `Runs one capture: identify the book, look up its metadata, and ask
for confirmation before saving it to the collection.

With an image argument the cover is identified with the vision model,
falling back to OCR when no model is configured. With --isbn or --title
the catalogs are queried directly.`,
		Example: `  # Identify a cover photo
  shelfie scan cover.jpg

  # Try the barcode first, then the cover
  shelfie scan cover.jpg --barcode

  # Look up an ISBN directly
  shelfie scan --isbn 9780141439518

  # Search by title
  shelfie scan --title "Dune"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			input := pipeline.Input{
				Barcode:     isbn,
				Title:       title,
				ScanBarcode: scanBarcode,
			}
			if len(args) == 1 {
				imageData, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				input.Image = imageData
			}

			pipe := pipeline.New(
				vision.New(cfg.GeminiAPIKey, cfg.GeminiModel),
				ocr.NewService(cfg.OllamaURL, cfg.OllamaModel),
				resolver.New(),
			)

			candidate, err := pipe.Run(cmd.Context(), input)
			if err != nil {
				return err
			}
			if candidate == nil {
				fmt.Println("No book found")
				return nil
			}

			bookStore := store.Open(cfg.DataFile)
			stage := confirm.NewStage(candidate, bookStore)

			record, err := confirmInteractive(stage, candidate, yes)
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Println("Discarded")
				return nil
			}

			fmt.Printf("Added %q (%s)\n", record.Title, strings.Join(record.Authors, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "Look up an ISBN directly")
	cmd.Flags().StringVar(&title, "title", "", "Search by title instead of an image")
	cmd.Flags().BoolVar(&scanBarcode, "barcode", false, "Try to decode a barcode from the image first")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without prompting")

	return cmd
}

// confirmInteractive walks the confirmation stage on the terminal. A nil
// record with a nil error means the user discarded the candidate.
func confirmInteractive(stage *confirm.Stage, candidate *models.PendingCandidate, yes bool) (*models.BookRecord, error) {
	printCandidate(candidate)

	reader := bufio.NewReader(os.Stdin)
	edits := confirm.Edits{}

	if candidate.Editable {
		fmt.Print("Title: ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		edits.Title = &line

		fmt.Print("Author (optional): ")
		author, _ := reader.ReadString('\n')
		if author = strings.TrimSpace(author); author != "" {
			edits.Authors = []string{author}
		}
	} else if !yes {
		fmt.Print("Add to collection? [Y/n] ")
		answer, _ := reader.ReadString('\n')
		if answer = strings.ToLower(strings.TrimSpace(answer)); answer == "n" || answer == "no" {
			stage.Cancel()
			return nil, nil
		}
	}

	record, err := stage.Commit(edits)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func printCandidate(candidate *models.PendingCandidate) {
	if candidate.Title == "" {
		fmt.Println("Could not identify the book; enter its details.")
		return
	}

	fmt.Printf("Found: %s\n", candidate.Title)
	if len(candidate.Authors) > 0 {
		fmt.Printf("  by %s\n", strings.Join(candidate.Authors, ", "))
	}
	if candidate.PublishedDate != "" {
		fmt.Printf("  published %s\n", candidate.PublishedDate)
	}
	if candidate.PageCount > 0 {
		fmt.Printf("  %d pages\n", candidate.PageCount)
	}
	if candidate.ISBN != "" {
		fmt.Printf("  ISBN %s\n", candidate.ISBN)
	}
}
