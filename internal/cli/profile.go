package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileNameCmd = &cobra.Command{
	Use:   "set-name NAME",
	Short: "Change your full name",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireIdentity(); err != nil {
			return err
		}
		id, err := a.session.UpdateProfile(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Name changed to %s\n", id.User.FullName)
		return nil
	}),
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password NEW_PASSWORD",
	Short: "Change your password; other sessions are signed out",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireIdentity(); err != nil {
			return err
		}
		if err := a.session.ChangePassword(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Password changed")
		return nil
	}),
}

func init() {
	profileCmd.AddCommand(profileNameCmd)
	profileCmd.AddCommand(profilePasswordCmd)
}
