package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recordSport   string
	recordWinners []string
	recordLosers  []string
	rolloverDry   bool
)

func init() {
	recordCmd.Flags().StringVar(&recordSport, "sport", "foosball", "The sport the match was played in")
	recordCmd.Flags().StringSliceVar(&recordWinners, "winners", nil, "Player ids on the winning side")
	recordCmd.Flags().StringSliceVar(&recordLosers, "losers", nil, "Player ids on the losing side")
	rolloverCmd.Flags().BoolVar(&rolloverDry, "dry-run", false, "Report winners without finalizing")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(rolloverCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players and their stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/teams")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [sport]",
	Short: "Show the leaderboard for a sport (defaults to foosball)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sport := "foosball"
		if len(args) == 1 {
			sport = args[0]
		}
		return performGetRequest("/leaderboard?sport=" + url.QueryEscape(sport))
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List finalized seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/seasons")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a decided match",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(map[string]any{
			"sport":      recordSport,
			"winner_ids": recordWinners,
			"loser_ids":  recordLosers,
		})
		if err != nil {
			return err
		}
		return performPostRequest("/matches", string(body))
	},
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Trigger the season rollover",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/seasons/rollover"
		if rolloverDry {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
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
