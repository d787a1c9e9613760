// Package commands implements the renotrack operator CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "renotrack",
	Short: "Operator tools for the renovation tracker",
	Long: `renotrack runs one-off jobs against the renovation tracker without going
through the HTTP API.

Examples:
  renotrack migrate
  renotrack scrape https://www.zillow.com/homedetails/...
  renotrack predict "Kitchen was fully remodeled in 2021"
  renotrack token --subject alice --role editor --ttl 2h
  renotrack worker`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load() // same .env lookup as the server
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func newLogger() *log.Logger {
	l := log.New("renotrack")
	l.SetLevel(log.WARN)
	if verbose {
		l.SetLevel(log.DEBUG)
	}
	return l
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
