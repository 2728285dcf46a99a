package main

import (
	"fmt"

	"github.com/spf13/cobra"
	attendance "worktally.com/worktally/attendance/core"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an identity token for a user",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "User id")
	tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.Users.FindUserByID(cmd.Context(), tokenUserID)
	if err != nil {
		return err
	}
	if user == nil {
		return attendance.ErrUserNotFound
	}

	token, expiresAt, err := a.Tokens.CreateIdentityToken(user)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
