package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Brittles42/Shelfie/internal/config"
	"github.com/Brittles42/Shelfie/internal/store"
	"github.com/Brittles42/Shelfie/internal/timeline"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the collection, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			bookStore := store.Open(cfg.DataFile)

			books := bookStore.List()
			if len(books) == 0 {
				fmt.Println("No books yet. Try `shelfie scan`.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"#", "Title", "Authors", "Published", "Added"})
			for i, book := range books {
				t.AppendRow(table.Row{
					i,
					book.Title,
					strings.Join(book.Authors, ", "),
					book.PublishedDate,
					book.AddedAt.Format("2006-01-02"),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}

	return cmd
}

func newTimelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the collection grouped by month added",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			bookStore := store.Open(cfg.DataFile)

			books := bookStore.List()
			if len(books) == 0 {
				fmt.Println("No books yet")
				return nil
			}

			for _, group := range timeline.GroupByMonth(books) {
				fmt.Println(group.Label)
				for _, book := range group.Books {
					author := ""
					if len(book.Authors) > 0 {
						author = " by " + book.Authors[0]
					}
					fmt.Printf("  %s%s\n", book.Title, author)
				}
			}
			return nil
		},
	}

	return cmd
}
