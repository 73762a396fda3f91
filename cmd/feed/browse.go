package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"feed-go/internal/app"
	"feed-go/internal/feed"
)

const browseHelp = `Commands:
  next             load the next page
  search TEXT      only show posts whose title contains TEXT
  clear            drop the search
  post             publish a new post
  edit POST_ID     edit one of your posts
  delete POST_ID   delete one of your posts
  refresh          reload from page 1
  quit             leave`

// browser is an interactive session over one FeedView. Every mutation made
// through it bumps the app's refresh signal; the view notices on the next
// sync and starts over from page 1.
type browser struct {
	app     *app.FeedApp
	view    *feed.FeedView
	prompt  *prompter
	out     io.Writer
	printed int
	stale   bool
}

func newBrowser(a *app.FeedApp, view *feed.FeedView, p *prompter) *browser {
	b := &browser{app: a, view: view, prompt: p, out: p.out}
	a.Signal().Subscribe(func(int64) { b.stale = true })
	return b
}

// run reads commands until quit or end of input.
func (b *browser) run(ctx context.Context) error {
	// A view already loaded with a search term is not fetched again.
	if _, err := b.view.Sync(ctx); err != nil {
		return errors.New(describeError(err))
	}
	b.printNew()

	for {
		fmt.Fprint(b.out, "> ")
		line, err := b.prompt.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(b.out)
			return nil
		}
		if err != nil {
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := b.dispatch(ctx, cmd, arg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(b.out, "error: %s\n", describeError(err))
		}

		if b.stale {
			b.stale = false
			if err := b.sync(ctx); err != nil {
				fmt.Fprintf(b.out, "error: %s\n", describeError(err))
			}
		}
	}
}

func (b *browser) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return nil
	case "next", "n":
		return b.next(ctx)
	case "search", "s":
		if arg == "" {
			return fmt.Errorf("usage: search TEXT")
		}
		return b.reload(func() error { return b.view.SetSearch(ctx, arg) })
	case "clear":
		return b.reload(func() error { return b.view.SetSearch(ctx, "") })
	case "refresh", "r":
		return b.reload(func() error { return b.view.Load(ctx) })
	case "post":
		return b.create(ctx)
	case "edit":
		if arg == "" {
			return fmt.Errorf("usage: edit POST_ID")
		}
		return b.edit(ctx, arg)
	case "delete":
		if arg == "" {
			return fmt.Errorf("usage: delete POST_ID")
		}
		return b.delete(ctx, arg)
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (b *browser) next(ctx context.Context) error {
	if !b.view.HasMore() {
		fmt.Fprintln(b.out, "No more posts.")
		return nil
	}
	if _, err := b.view.LoadMore(ctx); err != nil {
		return err
	}
	b.printNew()
	return nil
}

// reload runs load and prints the view from the top.
func (b *browser) reload(load func() error) error {
	if err := load(); err != nil {
		return err
	}
	b.printed = 0
	b.printNew()
	return nil
}

// sync refetches page 1 after a mutation.
func (b *browser) sync(ctx context.Context) error {
	reloaded, err := b.view.Sync(ctx)
	if err != nil {
		return err
	}
	if reloaded {
		fmt.Fprintln(b.out, "-- feed updated --")
		b.printed = 0
		b.printNew()
	}
	return nil
}

// printNew prints the items loaded since the last call.
func (b *browser) printNew() {
	items := b.view.Items()
	if len(items) == 0 {
		if b.view.Search() != "" {
			fmt.Fprintf(b.out, "No posts match %q.\n", b.view.Search())
		} else {
			fmt.Fprintln(b.out, "No posts.")
		}
		b.printed = 0
		return
	}

	if b.printed > len(items) {
		b.printed = 0
	}
	for _, p := range items[b.printed:] {
		printPost(b.out, p, b.app.Avatars())
	}
	b.printed = len(items)

	fmt.Fprintf(b.out, "-- %d of %d", b.printed, b.view.Total())
	if b.view.HasMore() {
		fmt.Fprint(b.out, ", `next` for more")
	}
	fmt.Fprintln(b.out, " --")
}

func (b *browser) create(ctx context.Context) error {
	var in feed.PostInput
	var err error
	if in.Title, err = b.prompt.ask("Title", ""); err != nil {
		return err
	}
	if in.Description, err = b.prompt.ask("Description", ""); err != nil {
		return err
	}
	source, err := b.prompt.ask("Media URL or local file", "")
	if err != nil {
		return err
	}

	var file string
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		in.URL = source
		if in.Type, err = b.prompt.ask("Type (image/video)", feed.MediaImage); err != nil {
			return err
		}
	} else {
		file = source
	}

	p, err := b.app.CreatePost(ctx, in, file)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Published %s.\n", p.ID)
	return nil
}

func (b *browser) edit(ctx context.Context, id string) error {
	// Prompts run only once the post is known to belong to the session user.
	p, err := b.app.UpdatePost(ctx, id, func(in *feed.PostInput) error {
		fields := []struct {
			label string
			value *string
		}{
			{"Title", &in.Title},
			{"Description", &in.Description},
			{"Media URL", &in.URL},
			{"Type (image/video)", &in.Type},
		}
		for _, f := range fields {
			answer, err := b.prompt.ask(f.label, *f.value)
			if err != nil {
				return err
			}
			*f.value = answer
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Updated %s.\n", p.ID)
	return nil
}

func (b *browser) delete(ctx context.Context, id string) error {
	ok, err := b.prompt.confirm(fmt.Sprintf("Delete post %s permanently?", id))
	if err != nil || !ok {
		return err
	}
	if err := b.app.DeletePost(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Deleted %s.\n", id)
	return nil
}

var browseCmd = &cobra.Command{
	Use:   "browse [USER_ID]",
	Short: "Scroll the feed interactively (one author's posts when USER_ID is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")
		search, _ := cmd.Flags().GetString("search")

		a, err := newApp(cmd.Context(), "Browse")
		if err != nil {
			return err
		}
		defer a.Close()

		var authorID string
		if len(args) > 0 {
			authorID = args[0]
		}
		view := a.NewFeedView(authorID, size)
		if search != "" {
			if err := view.SetSearch(cmd.Context(), search); err != nil {
				return errors.New(describeError(err))
			}
		}

		fmt.Println("Type `help` for commands.")
		return newBrowser(a, view, newPrompter()).run(cmd.Context())
	},
}

func init() {
	browseCmd.Flags().IntP("size", "n", 0, "Posts per page (default from config)")
	browseCmd.Flags().StringP("search", "s", "", "Start with this search")

	rootCmd.AddCommand(browseCmd)
}
