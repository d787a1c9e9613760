package commands

import (
	"github.com/spf13/cobra"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/scraper"
)

// scrapeCmd fetches a listing page and prints what was extracted
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a listing page and print the parsed fields as JSON",
	Long: `Scrape loads the page in headless Chrome and prints the parsed listing.
Nothing is written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scraper.New(scraper.NewChromeBrowser(config.LoadScraperConfig(), newLogger()))
		res, err := s.Scrape(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
