package main

import (
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	host    string
	timeout time.Duration

	httpClient *http.Client
)

var rootCmd = &cobra.Command{
	Use:   "courtmate-cli",
	Short: "Talk to a running courtmate server",
	Long: `Maintenance and inspection commands for a courtmate deployment:
match listings, the leaderboard, reminder and invite-expiry sweeps.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		httpClient = &http.Client{Timeout: timeout}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "Base URL of the server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "Request timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
