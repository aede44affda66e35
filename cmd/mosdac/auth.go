package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mosdac/internal/api"
	"mosdac/internal/i18n"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		email, password, err := credentialsFromFlags()
		if err != nil {
			return err
		}

		token, err := deps.Client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		if err := deps.Creds.SetToken(token); err != nil {
			return err
		}
		color.Green(i18n.T("cli.login_ok"))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		email, password, err := credentialsFromFlags()
		if err != nil {
			return err
		}

		if err := deps.Client.Register(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		color.Green(i18n.T("cli.register_ok"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		user, err := deps.Client.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", api.UserMessage(err))
		}
		fmt.Printf("%s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Creds.ClearToken(); err != nil {
			return err
		}
		color.Green(i18n.T("cli.logout_ok"))
		return nil
	},
}

// credentialsFromFlags resolves email and password, prompting for the
// password without echo when the flag is absent.
func credentialsFromFlags() (string, string, error) {
	email := strings.TrimSpace(flagEmail)
	if email == "" {
		return "", "", fmt.Errorf("--email is required")
	}
	password := flagPassword
	if password == "" {
		raw, err := readline.Password("Password: ")
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}
	if strings.TrimSpace(password) == "" {
		return "", "", fmt.Errorf("password is empty")
	}
	return email, password, nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
		cmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, whoamiCmd, logoutCmd)
}
