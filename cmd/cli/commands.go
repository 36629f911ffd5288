package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(expireInvitesCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		endpoint := "/matches"
		if status != "" {
			endpoint += "?status=" + status
		}
		return performGetRequest(endpoint)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <id>",
	Short: "Show a single match with its roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/" + args[0])
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Trigger reminder emails for matches starting soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetString("hours")
		endpoint := "/reminders/run"
		if hours != "" {
			endpoint += "?hours=" + hours
		}
		return performPostRequest(endpoint)
	},
}

var expireInvitesCmd = &cobra.Command{
	Use:   "expire-invites",
	Short: "Expire open invites older than the given number of days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetString("days")
		endpoint := "/invites/expire"
		if days != "" {
			endpoint += "?days=" + days
		}
		return performPostRequest(endpoint)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func init() {
	matchesCmd.Flags().String("status", "", "Filter by match status (open, full, cancelled, completed)")
	remindersCmd.Flags().String("hours", "", "Reminder window in hours (default 24)")
	expireInvitesCmd.Flags().String("days", "", "Expire invites older than this many days (default 14)")
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := httpClient.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
