package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"studyhub/backend/internal/analytics"
	"studyhub/backend/internal/config"
	"studyhub/backend/internal/db"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/repository"
)

func newStatsCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var email string
	var timeframe string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print study statistics for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			switch timeframe {
			case analytics.TimeframeWeek, analytics.TimeframeMonth, analytics.TimeframeAll:
			default:
				return fmt.Errorf("timeframe must be one of week, month, all")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := db.OpenSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			ctx := cmd.Context()
			userRepo := repository.NewUserRepository(database)
			stateRepo := repository.NewStateRepository(database)
			sessionRepo := repository.NewSessionRepository(database)

			user, err := userRepo.GetByEmail(ctx, email)
			if err == repository.ErrNotFound {
				return fmt.Errorf("no user with email %s", email)
			}
			if err != nil {
				return fmt.Errorf("look up user: %w", err)
			}

			var data model.StudyData
			if err := stateRepo.Load(ctx, user.ID, repository.StateKeyStudyData, &data); err != nil && err != repository.ErrNotFound {
				return fmt.Errorf("load study data: %w", err)
			}

			sessions, err := sessionRepo.ListSince(ctx, user.ID, time.Time{})
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}

			stats := analytics.Compute(data, sessions, timeframe, time.Now().UTC())

			rows := [][]string{
				{"Focus time", formatDuration(stats.TotalFocusSeconds)},
				{"Break time", formatDuration(stats.TotalBreakSeconds)},
				{"Focus/break ratio", strconv.FormatFloat(stats.FocusBreakRatio, 'f', 2, 64)},
				{"Completed tasks", strconv.Itoa(stats.CompletedTasks)},
				{"Sessions", strconv.Itoa(stats.SessionCount)},
				{"Daily average", formatDuration(int(stats.DailyAverageSeconds))},
				{"Most productive day", stats.MostProductiveDay},
				{"Streak (days)", strconv.Itoa(stats.StreakDays)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the user to report on")
	cmd.Flags().StringVar(&timeframe, "timeframe", analytics.TimeframeAll, "Timeframe: week, month, or all")

	return cmd
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %02ds", minutes, seconds%60)
}
