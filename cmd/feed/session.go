package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"feed-go/internal/feed"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		p := newPrompter()
		if email == "" {
			var err error
			if email, err = p.ask("Email", ""); err != nil {
				return err
			}
		}
		password, err := p.askPassword("Password")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "Login")
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %s", describeError(err))
		}

		fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Whoami")
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Whoami()
		if err != nil {
			return err
		}
		if sess == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		printUser(cmd.OutOrStdout(), sess, a.Avatars())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		p := newPrompter()
		var err error
		if name == "" {
			if name, err = p.ask("Name", ""); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = p.ask("Email", ""); err != nil {
				return err
			}
		}
		password, err := p.askPassword("Password")
		if err != nil {
			return err
		}
		again, err := p.askPassword("Repeat password")
		if err != nil {
			return err
		}
		if password != again {
			return fmt.Errorf("passwords do not match")
		}

		a, err := newApp(cmd.Context(), "Register")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Register(cmd.Context(), feed.RegisterInput{Name: name, Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("registration failed: %s", describeError(err))
		}

		fmt.Printf("Account created for %s. Run `feed login` to sign in.\n", u.Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Account email")
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().StringP("email", "e", "", "Account email")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
}
