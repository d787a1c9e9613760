package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/inference"
)

// predictCmd runs the text extractor over a description
var predictCmd = &cobra.Command{
	Use:   "predict <description...>",
	Short: "Print which areas a description says were renovated",
	Long: `Predict runs the configured text backend (TEXT_INFERENCE_BACKEND) over the
given description. Multiple arguments are joined with spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("description is empty")
		}
		ex, err := inference.NewExtractor(config.LoadInferenceConfig(), newLogger())
		if err != nil {
			return err
		}
		j, err := ex.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), j)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}
