package main

import (
	"fmt"

	"github.com/spf13/cobra"
	client "worktally.com/worktally/client/v1"
)

var accountOpts struct {
	authType string
	username string
	password string
	code     string

	startTime   string
	endTime     string
	hourlyRate  float64
	workHours   float64
	dailySalary float64
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Sign in and manage your rated profile through a running API",
}

func credential() client.CredentialDTO {
	return client.CredentialDTO{
		AuthType: accountOpts.authType,
		Username: accountOpts.username,
		Password: accountOpts.password,
		Code:     accountOpts.code,
	}
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print the identity token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newClient().Auth.Login(cmd.Context(), credential())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.Token)
		return nil
	},
}

var accountRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print the identity token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newClient().Auth.Register(cmd.Context(), credential())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.Token)
		return nil
	},
}

var accountMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().Users.Me(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

var accountProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Replace the rated profile of the signed-in user",
	Long: `Replaces every rated field. Flags that are not given are cleared.
When --hours is omitted and both --start and --end are given the server
derives the rated hours from the window.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var profile client.RatedProfileDTO
		flags := cmd.Flags()
		if flags.Changed("start") {
			profile.RatedWorkStartTime = &accountOpts.startTime
		}
		if flags.Changed("end") {
			profile.RatedWorkEndTime = &accountOpts.endTime
		}
		if flags.Changed("rate") {
			profile.RatedHourlyRate = &accountOpts.hourlyRate
		}
		if flags.Changed("hours") {
			profile.RatedWorkHours = &accountOpts.workHours
		}
		if flags.Changed("salary") {
			profile.RatedDailySalary = &accountOpts.dailySalary
		}

		user, err := newClient().Users.UpdateMe(cmd.Context(), profile)
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

func init() {
	addClientFlags(accountCmd)

	for _, c := range []*cobra.Command{accountLoginCmd, accountRegisterCmd} {
		f := c.Flags()
		f.StringVar(&accountOpts.authType, "auth-type", "local", "local, wechat or oauth")
		f.StringVar(&accountOpts.username, "username", "", "Username (local)")
		f.StringVar(&accountOpts.password, "password", "", "Password (local)")
		f.StringVar(&accountOpts.code, "code", "", "Authorization code (wechat, oauth)")
	}

	f := accountProfileCmd.Flags()
	f.StringVar(&accountOpts.startTime, "start", "", "Rated start of work, HH:MM")
	f.StringVar(&accountOpts.endTime, "end", "", "Rated end of work, HH:MM")
	f.Float64Var(&accountOpts.hourlyRate, "rate", 0, "Rated hourly rate")
	f.Float64Var(&accountOpts.workHours, "hours", 0, "Rated work hours")
	f.Float64Var(&accountOpts.dailySalary, "salary", 0, "Rated daily salary")

	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountRegisterCmd)
	accountCmd.AddCommand(accountMeCmd)
	accountCmd.AddCommand(accountProfileCmd)
}
