package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"worktally.com/worktally/app"
	"worktally.com/worktally/config"
)

var rootCmd = &cobra.Command{
	Use:   "worktally",
	Short: "Worktally employee time tracking",
	Long: `worktally serves the time tracking API and runs its maintenance tasks.
Configuration is read from .env, the YAML file named by WORKTALLY_CONFIG,
environment variables and optionally an SSM parameter.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
