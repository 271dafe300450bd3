package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Brittles42/Shelfie/internal/config"
	"github.com/Brittles42/Shelfie/internal/share"
	"github.com/Brittles42/Shelfie/internal/store"
)

func newShareCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Render the shelf as a shareable PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			bookStore := store.Open(cfg.DataFile)

			books := bookStore.List()
			if len(books) == 0 {
				fmt.Println("Add some books first!")
				return nil
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()

			if err := share.WritePNG(file, books); err != nil {
				return err
			}

			fmt.Printf("Wrote %s (%d books)\n", output, len(books))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "my-shelfie.png", "Output file")

	return cmd
}
