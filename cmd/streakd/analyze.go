package main

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"streakd/internal/calendar"
)

var (
	flagFile      string
	flagDate      string
	flagDaily     int
	flagWeekly    int
	flagWeekStart string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&flagFile, "file", "f", "-", "Raw calendar file, - for stdin")
	analyzeCmd.Flags().StringVar(&flagDate, "date", "", "Reference date YYYY-MM-DD (default today, UTC)")
	analyzeCmd.Flags().IntVar(&flagDaily, "daily", calendar.DailyWindow, "Daily window in days")
	analyzeCmd.Flags().IntVar(&flagWeekly, "weekly", calendar.WeeklyWindow, "Weekly window in days")
	analyzeCmd.Flags().StringVar(&flagWeekStart, "week-start", "sunday", "First grid row: sunday or monday")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a raw calendar offline",
	Long:  "Read a raw calendar in any accepted shape and print its streaks, weekly sums and grid as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, flagFile)
		if err != nil {
			return err
		}
		raw, err := calendar.ParseRaw(data)
		if err != nil {
			return err
		}

		ref := time.Now().UTC()
		if flagDate != "" {
			d, err := calendar.ParseDate(flagDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q", flagDate)
			}
			ref = d.Time()
		}

		opts := calendar.Options{DailyWindow: flagDaily, WeeklyWindow: flagWeekly, WeekStart: time.Sunday}
		switch flagWeekStart {
		case "sunday":
		case "monday":
			opts.WeekStart = time.Monday
		default:
			return fmt.Errorf("invalid --week-start %q", flagWeekStart)
		}

		report, err := calendar.Analyze(raw, ref, opts)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	return data, nil
}
