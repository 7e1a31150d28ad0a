package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const envTemplate = `# jobkit environment configuration
#
# Provider API keys. At least one provider must be configured.
GEMINI_API_KEY=your-gemini-api-key
MISTRAL_API_KEY=your-mistral-api-key

# Server API keys (comma separated). Leave empty to disable authentication.
JOBKIT_SERVER_APIKEYS=

# Uncomment to override defaults:
# JOBKIT_AI_PROVIDER=mistral
# JOBKIT_SERVER_HOST=localhost
# JOBKIT_SERVER_PORT=8080
# JOBKIT_OUTPUT_DIR=output
# JOBKIT_APP_LOGLEVEL=info
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .env configuration template",
	Long: `Write a .env template with provider API key placeholders to the current
directory. An existing .env file is never overwritten unless --force is
given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .env file")
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	if _, err := os.Stat(".env"); err == nil && !initForce {
		return fmt.Errorf(".env already exists, use --force to overwrite")
	}

	if err := os.WriteFile(".env", []byte(envTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}

	logger.Info("Wrote .env template")
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote .env template. Fill in your provider API keys before running jobkit.")
	return nil
}
