package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakd/internal/calendar"
)

func runAnalyze(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// cobra keeps flag values between Execute calls
	flagFile, flagDate, flagWeekStart = "-", "", "sunday"
	flagDaily, flagWeekly = calendar.DailyWindow, calendar.WeeklyWindow

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"analyze"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyze_FromStdin(t *testing.T) {
	out, err := runAnalyze(t, `{"2024-02-29": 1, "2024-03-01": 2}`, "--date", "2024-03-01", "--daily", "30", "--weekly", "14")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2024-03-01", report["reference"])
	assert.Equal(t, map[string]any{"currentStreak": float64(2), "longestStreak": float64(2), "totalActivity": float64(3)}, report["streak"])
	assert.Len(t, report["days"], 30)
	assert.Len(t, report["weekly"], 2)
}

func TestAnalyze_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"date": "2024-03-01", "count": 1}]`), 0o644))

	out, err := runAnalyze(t, "", "--file", path, "--date", "2024-03-01", "--week-start", "monday")
	require.NoError(t, err)
	assert.Contains(t, out, `"currentStreak": 1`)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	_, err := runAnalyze(t, `42`, "--date", "2024-03-01")
	assert.Error(t, err)

	_, err = runAnalyze(t, `{}`, "--date", "March 1st")
	assert.ErrorContains(t, err, "invalid --date")

	_, err = runAnalyze(t, `{}`, "--week-start", "friday")
	assert.ErrorContains(t, err, "invalid --week-start")
}

func TestAnalyze_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, err := runAnalyze(t, `{}`, "--date", "March 1st")
	require.Error(t, err)

	out, err := runAnalyze(t, `{"2024-03-01": 1}`, "--daily", "7", "--weekly", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `"reference"`)
}
