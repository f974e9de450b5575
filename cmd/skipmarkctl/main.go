package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "skipmarkctl",
		Short: "CLI client for the skipmark REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Skipmark service base URL")

	// lockreasons subcommand
	lockCmd := &cobra.Command{
		Use:   "lockreasons",
		Short: "Show lock state per category for a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, _ := cmd.Flags().GetString("video")
			categories, _ := cmd.Flags().GetStringSlice("category")
			if videoID == "" {
				return fmt.Errorf("--video required")
			}
			return runLockReasons(apiFlag, videoID, categories, os.Stdout)
		},
	}
	lockCmd.Flags().StringP("video", "v", "", "Video ID (required)")
	lockCmd.Flags().StringSliceP("category", "c", nil, "Category filter (repeatable)")
	_ = lockCmd.MarkFlagRequired("video")
	rootCmd.AddCommand(lockCmd)

	// userinfo subcommand
	infoCmd := &cobra.Command{
		Use:   "userinfo",
		Short: "Show statistics for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			publicID, _ := cmd.Flags().GetString("public")
			values, _ := cmd.Flags().GetStringSlice("value")
			if userID == "" && publicID == "" {
				return fmt.Errorf("--user or --public required")
			}
			return runUserInfo(apiFlag, userID, publicID, values, os.Stdout)
		},
	}
	infoCmd.Flags().StringP("user", "u", "", "Private user ID")
	infoCmd.Flags().StringP("public", "p", "", "Public user ID")
	infoCmd.Flags().StringSliceP("value", "f", nil, "Statistic to request (repeatable)")
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
