package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/core"
	"worktally.com/worktally/security"
	"worktally.com/worktally/utils"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Create local users with their rated profile from a CSV file",
	Long: `The CSV header names the columns: username, password and optionally
ratedWorkStartTime, ratedWorkEndTime, ratedHourlyRate, ratedWorkHours,
ratedDailySalary. Existing usernames are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersImport,
}

func init() {
	usersCmd.AddCommand(usersImportCmd)
}

func runUsersImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", args[0], err)
	}
	defer f.Close()

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	created, skipped, err := importUsers(cmd.Context(), a.Users, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %d users, skipped %d\n", created, skipped)
	return nil
}

type userStore interface {
	FindUserByUsername(ctx context.Context, username string) (*core.User, error)
	CreateUser(ctx context.Context, user *core.User) error
}

// importUsers validates the whole file before creating anyone.
func importUsers(ctx context.Context, users userStore, r io.Reader) (int, int, error) {
	rows, err := utils.ParseCSVWithHeader(r)
	if err != nil {
		return 0, 0, err
	}
	rows = utils.Filter(rows, func(row map[string]string) bool { return row["username"] != "" })

	for username, group := range utils.GroupBy(rows, func(row map[string]string) string { return row["username"] }) {
		if len(group) > 1 {
			return 0, 0, fmt.Errorf("username %s appears %d times", username, len(group))
		}
	}

	parsed := make([]*core.User, 0, len(rows))
	for i, row := range rows {
		user, err := userFromRow(row)
		if err != nil {
			return 0, 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		parsed = append(parsed, user)
	}

	created, skipped := 0, 0
	for _, user := range parsed {
		existing, err := users.FindUserByUsername(ctx, *user.Username)
		if err != nil {
			return created, skipped, err
		}
		if existing != nil {
			log.Printf("[INFO] skipping existing user %s", *user.Username)
			skipped++
			continue
		}
		if err := users.CreateUser(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("failed to create %s: %w", *user.Username, err)
		}
		created++
	}
	return created, skipped, nil
}

func userFromRow(row map[string]string) (*core.User, error) {
	hash, err := security.HashPassword(row["password"])
	if err != nil {
		return nil, err
	}
	user := &core.User{
		Username:     utils.Ptr(row["username"]),
		PasswordHash: &hash,
		Provider:     core.ProviderLocal,
	}

	for _, t := range []struct {
		column string
		dst    **string
	}{
		{"ratedworkstarttime", &user.RatedWorkStartTime},
		{"ratedworkendtime", &user.RatedWorkEndTime},
	} {
		if v := row[t.column]; v != "" {
			if _, err := attendance.ParseTimeOfDay(v); err != nil {
				return nil, err
			}
			*t.dst = utils.Ptr(v)
		}
	}

	for _, n := range []struct {
		column string
		dst    **float64
	}{
		{"ratedhourlyrate", &user.RatedHourlyRate},
		{"ratedworkhours", &user.RatedWorkHours},
		{"rateddailysalary", &user.RatedDailySalary},
	} {
		if v := row[n.column]; v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				return nil, fmt.Errorf("invalid %s %q", n.column, v)
			}
			*n.dst = &f
		}
	}

	if user.RatedWorkHours == nil && user.RatedWorkStartTime != nil && user.RatedWorkEndTime != nil {
		hours, err := attendance.RatedHoursBetween(*user.RatedWorkStartTime, *user.RatedWorkEndTime)
		if err != nil {
			return nil, err
		}
		user.RatedWorkHours = &hours
	}
	return user, nil
}
