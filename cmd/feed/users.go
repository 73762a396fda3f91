package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"feed-go/internal/feed"
)

// users command (Admin only)
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (admins only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")

		a, err := newApp(cmd.Context(), "UsersList")
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.Users(cmd.Context(), search)
		if err != nil {
			return errors.New(describeError(err))
		}
		if len(users) == 0 {
			fmt.Println("No users.")
			return nil
		}
		for _, u := range users {
			printUser(cmd.OutOrStdout(), u, a.Avatars())
		}
		fmt.Printf("\n%d user(s)\n", len(users))
		return nil
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show USER_ID",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "UsersShow")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.User(cmd.Context(), args[0])
		if err != nil {
			return errors.New(describeError(err))
		}
		printUser(cmd.OutOrStdout(), u, a.Avatars())
		fmt.Printf("    joined: %s\n", u.CreateDate.Local().Format(timeLayout))
		return nil
	},
}

var usersEditCmd = &cobra.Command{
	Use:   "edit USER_ID",
	Short: "Change an account's name, email, role or avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("email") && !flags.Changed("role") && !flags.Changed("avatar") {
			return fmt.Errorf("nothing to change: pass --name, --email, --role or --avatar")
		}

		a, err := newApp(cmd.Context(), "UsersEdit")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.UpdateUser(cmd.Context(), args[0], func(in *feed.UserInput) {
			if flags.Changed("name") {
				in.Name, _ = flags.GetString("name")
			}
			if flags.Changed("email") {
				in.Email, _ = flags.GetString("email")
			}
			if flags.Changed("role") {
				in.Role, _ = flags.GetString("role")
			}
			if flags.Changed("avatar") {
				in.Avatar, _ = flags.GetString("avatar")
			}
		})
		if err != nil {
			return fmt.Errorf("could not save: %s", describeError(err))
		}

		fmt.Println("Updated:")
		printUser(cmd.OutOrStdout(), u, a.Avatars())
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete USER_ID",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := newPrompter().confirm(fmt.Sprintf("Delete user %s permanently?", args[0]))
			if err != nil || !ok {
				return err
			}
		}

		a, err := newApp(cmd.Context(), "UsersDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteUser(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("could not delete: %s", describeError(err))
		}
		fmt.Printf("Deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	usersListCmd.Flags().StringP("search", "s", "", "Match name or email, ignoring case and accents")

	usersEditCmd.Flags().String("name", "", "Display name")
	usersEditCmd.Flags().StringP("email", "e", "", "Account email")
	usersEditCmd.Flags().String("role", "", "User or Admin")
	usersEditCmd.Flags().String("avatar", "", "Avatar image URL")

	usersDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersEditCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	rootCmd.AddCommand(usersCmd)
}
