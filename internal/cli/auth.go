package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: run(func(ctx context.Context, a *app, _ []string) error {
		id, err := a.session.SignUp(ctx, signUpEmail, signUpPassword, signUpName)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Welcome, %s!\n", id.User.DisplayName())
		return nil
	}),
}

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE: run(func(ctx context.Context, a *app, _ []string) error {
		id, err := a.session.SignIn(ctx, signInEmail, signInPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Signed in as %s\n", id.User.DisplayName())
		return nil
	}),
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: run(func(ctx context.Context, a *app, _ []string) error {
		if err := a.requireIdentity(); err != nil {
			return err
		}
		if err := a.session.SignOut(ctx); err != nil {
			// The local session is gone either way.
			a.logger.Warn("Server sign-out failed", "error", err)
		}
		fmt.Fprintln(a.out, "Signed out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: run(func(_ context.Context, a *app, _ []string) error {
		id := a.session.Current()
		if id == nil {
			fmt.Fprintln(a.out, "Not signed in")
			return nil
		}
		fmt.Fprintf(a.out, "%s <%s>\n", id.User.DisplayName(), id.User.Email)
		fmt.Fprintf(a.out, "id:     %s\n", id.User.ID)
		if !id.User.CreatedAt.IsZero() {
			fmt.Fprintf(a.out, "joined: %s\n", id.User.CreatedAt.Format("January 2, 2006"))
		}
		return nil
	}),
}

var (
	signUpEmail    string
	signUpPassword string
	signUpName     string
	signInEmail    string
	signInPassword string
)

func init() {
	signUpCmd.Flags().StringVar(&signUpEmail, "email", "", "Email address")
	signUpCmd.Flags().StringVar(&signUpPassword, "password", "", "Password (at least 6 characters)")
	signUpCmd.Flags().StringVar(&signUpName, "name", "", "Full name")
	_ = signUpCmd.MarkFlagRequired("email")
	_ = signUpCmd.MarkFlagRequired("password")
	_ = signUpCmd.MarkFlagRequired("name")

	signInCmd.Flags().StringVar(&signInEmail, "email", "", "Email address")
	signInCmd.Flags().StringVar(&signInPassword, "password", "", "Password")
	_ = signInCmd.MarkFlagRequired("email")
	_ = signInCmd.MarkFlagRequired("password")
}
