package commands

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/renotrack/renovation-tracker/internal/utils"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

// tokenCmd mints a bearer token for the write endpoints
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with JWT_SECRET",
	Long: `Token signs an HS256 access token. The API only accepts the editor and
admin roles on mutating routes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		if tokenTTL <= 0 {
			return errors.New("--ttl must be positive")
		}
		tok, err := utils.NewAccessToken(secret, tokenSubject, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), tok)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "editor", "Role claim (editor or admin)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 60*time.Minute, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}
