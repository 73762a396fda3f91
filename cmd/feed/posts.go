package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"feed-go/internal/feed"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show a page of the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		search, _ := cmd.Flags().GetString("search")

		a, err := newApp(cmd.Context(), "Feed")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Feed(cmd.Context(), page, size, search)
		if err != nil {
			return errors.New(describeError(err))
		}
		printPage(cmd.OutOrStdout(), res, page, a.Avatars())
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [USER_ID]",
	Short: "Show a user's posts (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		a, err := newApp(cmd.Context(), "Profile")
		if err != nil {
			return err
		}
		defer a.Close()

		var authorID string
		if len(args) > 0 {
			authorID = args[0]
		}

		res, err := a.Profile(cmd.Context(), authorID, page, size)
		if err != nil {
			return errors.New(describeError(err))
		}
		printPage(cmd.OutOrStdout(), res, page, a.Avatars())
		return nil
	},
}

// post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage your posts",
}

var postShowCmd = &cobra.Command{
	Use:   "show POST_ID",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "PostShow")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetPost(cmd.Context(), args[0])
		if err != nil {
			return errors.New(describeError(err))
		}
		printPost(cmd.OutOrStdout(), p, a.Avatars())
		return nil
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		url, _ := cmd.Flags().GetString("url")
		kind, _ := cmd.Flags().GetString("type")
		file, _ := cmd.Flags().GetString("file")

		if url != "" && file != "" {
			return fmt.Errorf("use either --url or --file, not both")
		}

		a, err := newApp(cmd.Context(), "PostCreate")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.CreatePost(cmd.Context(), feed.PostInput{
			Title:       title,
			Description: description,
			Type:        kind,
			URL:         url,
		}, file)
		if err != nil {
			return fmt.Errorf("could not publish: %s", describeError(err))
		}

		fmt.Println("Published:")
		printPost(cmd.OutOrStdout(), p, a.Avatars())
		return nil
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit POST_ID",
	Short: "Edit one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("url") && !flags.Changed("type") {
			return fmt.Errorf("nothing to change: pass --title, --description, --url or --type")
		}

		a, err := newApp(cmd.Context(), "PostEdit")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.UpdatePost(cmd.Context(), args[0], func(in *feed.PostInput) error {
			if flags.Changed("title") {
				in.Title, _ = flags.GetString("title")
			}
			if flags.Changed("description") {
				in.Description, _ = flags.GetString("description")
			}
			if flags.Changed("url") {
				in.URL, _ = flags.GetString("url")
			}
			if flags.Changed("type") {
				in.Type, _ = flags.GetString("type")
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("could not save: %s", describeError(err))
		}

		fmt.Println("Updated:")
		printPost(cmd.OutOrStdout(), p, a.Avatars())
		return nil
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete POST_ID",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := newPrompter().confirm(fmt.Sprintf("Delete post %s permanently?", args[0]))
			if err != nil || !ok {
				return err
			}
		}

		a, err := newApp(cmd.Context(), "PostDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeletePost(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("could not delete: %s", describeError(err))
		}
		fmt.Printf("Deleted post %s\n", args[0])
		return nil
	},
}

func init() {
	listCmd.Flags().IntP("page", "p", 1, "Page number")
	listCmd.Flags().IntP("size", "n", 0, "Posts per page (default from config)")
	listCmd.Flags().StringP("search", "s", "", "Only posts whose title contains this text")

	profileCmd.Flags().IntP("page", "p", 1, "Page number")
	profileCmd.Flags().IntP("size", "n", 100, "Posts per page")

	for _, c := range []*cobra.Command{postCreateCmd, postEditCmd} {
		c.Flags().StringP("title", "t", "", "Post title")
		c.Flags().StringP("description", "d", "", "Post description")
		c.Flags().StringP("url", "u", "", "Media URL (http or https)")
		c.Flags().String("type", "", "Media type: image or video")
	}
	postCreateCmd.Flags().StringP("file", "f", "", "Upload a local image or video instead of --url")
	postDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(postCmd)
}
