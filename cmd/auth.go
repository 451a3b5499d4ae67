package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svega/cinelist/api"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
	loginEmail       string
	loginPassword    string
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create a new account",
	PreRunE: requireAnonymous,
	RunE:    runRegister,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in and store the session locally",
	PreRunE: requireAnonymous,
	RunE:    runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long: `Clear the stored bearer token and cached profile.

The token is only removed locally; the backend does not support
revocation, so it stays valid there until it expires.`,
	RunE: runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the authenticated user's profile",
	PreRunE: requireAuth,
	RunE:    runWhoami,
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username (prompted if omitted)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address (prompted if omitted)")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password (prompted if omitted)")

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email address (prompted if omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted if omitted)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	var err error
	if registerUsername == "" {
		if registerUsername, err = promptLine("Username", ""); err != nil {
			return err
		}
	}
	if registerEmail == "" {
		if registerEmail, err = promptLine("Email", ""); err != nil {
			return err
		}
	}
	if registerPassword == "" {
		if registerPassword, err = promptLine("Password", ""); err != nil {
			return err
		}
	}

	msg, err := authSvc.Register(context.Background(), registerUsername, registerEmail, registerPassword)
	if err != nil {
		return describeAPIError(err)
	}

	fmt.Printf("✓ %s\n", msg)
	fmt.Println("Log in with 'cinelist login' to start your catalog.")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	var err error
	if loginEmail == "" {
		if loginEmail, err = promptLine("Email", ""); err != nil {
			return err
		}
	}
	if loginPassword == "" {
		if loginPassword, err = promptLine("Password", ""); err != nil {
			return err
		}
	}

	user, err := authSvc.Login(context.Background(), loginEmail, loginPassword)
	if err != nil {
		return describeAPIError(err)
	}

	fmt.Printf("✓ Logged in as %s (%s)\n", user.Username, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if !store.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := authSvc.Logout(); err != nil {
		return err
	}

	fmt.Println("✓ Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := authSvc.CurrentUser(context.Background())
	if err != nil {
		return describeAPIError(err)
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	if !user.CreatedAt.IsZero() {
		fmt.Printf("Member since %s\n", user.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// describeAPIError renders the most specific message available: field
// errors first, then the backend's general message, then the raw
// error.
func describeAPIError(err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.IsValidation() {
		for field, messages := range apiErr.Details {
			for _, msg := range messages {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		return fmt.Errorf("%s", apiErr.Message)
	}

	return fmt.Errorf("%s", apiErr.Message)
}
