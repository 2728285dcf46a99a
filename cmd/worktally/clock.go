package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	client "worktally.com/worktally/client/v1"
)

var clockOpts struct {
	server string
	token  string
}

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Clock in or out through a running API",
}

var clockInCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().Clock.In(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var clockOutCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().Clock.Out(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var clockTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's clock record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().Clock.Today(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	addClientFlags(clockCmd)

	clockCmd.AddCommand(clockInCmd)
	clockCmd.AddCommand(clockOutCmd)
	clockCmd.AddCommand(clockTodayCmd)
}

// addClientFlags adds the API connection flags to a command group.
func addClientFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&clockOpts.server, "server", "http://localhost:8090", "API base URL")
	pf.StringVar(&clockOpts.token, "token", os.Getenv("WORKTALLY_TOKEN"), "Identity token (defaults to WORKTALLY_TOKEN)")
}

func newClient() *client.WorktallyClient {
	return client.NewWorktallyClient(clockOpts.server, clockOpts.token)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
