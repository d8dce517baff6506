package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/itchan-dev/boardsync/shared/logger"
	"github.com/itchan-dev/boardsync/watcher/internal/apiclient"
	"github.com/spf13/cobra"
)

var (
	apiURL   string
	apiToken string
	logLevel string
)

var red = color.New(color.FgRed, color.Bold)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardsync-watch",
	Short: "Follow boardsync boards from a terminal",
	Long: `boardsync-watch lists your boards and follows one of them live.

The token is the same access token the web client uses; it can also be
given through BOARDSYNC_TOKEN.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitializeWriter(os.Stderr, logLevel, false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		red.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("BOARDSYNC_API", "http://localhost:8080"), "backend base url")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("BOARDSYNC_TOKEN"), "access token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
}

func newClient() (*apiclient.APIClient, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("no access token, pass --token or set BOARDSYNC_TOKEN")
	}
	return apiclient.New(apiURL, apiToken), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
