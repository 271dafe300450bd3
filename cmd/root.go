package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfie",
		Short: "Catalog your physical books from cover photos and barcodes",
		Long: `Shelfie keeps a local catalog of your physical books.

Point it at a cover photo or a barcode and it identifies the book with a
vision model, enriches it from public catalogs, and saves the confirmed
record to your collection.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newTimelineCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newShareCmd())

	return cmd
}
