package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"feed-go/internal/feed"
	"feed-go/internal/resource"
)

const timeLayout = "2006-01-02 15:04"

func printPost(w io.Writer, p *feed.Post, avatars feed.AvatarGenerator) {
	fmt.Fprintf(w, "[%s] %s\n", p.ID, p.Title)
	fmt.Fprintf(w, "    by %s on %s", p.UserName, p.CreateDate.Local().Format(timeLayout))
	if p.UpdateDate != nil && !p.UpdateDate.Equal(p.CreateDate) {
		fmt.Fprintf(w, " (edited %s)", p.UpdateDate.Local().Format(timeLayout))
	}
	fmt.Fprintln(w)
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(w, "    %s\n", d)
	}
	fmt.Fprintf(w, "    %s: %s\n", p.Type, p.URL)
	fmt.Fprintf(w, "    avatar: %s\n", avatars.PostAvatar(p, 64))
}

func printPage(w io.Writer, page *feed.Page, pageNum int, avatars feed.AvatarGenerator) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No posts.")
		return
	}
	for _, p := range page.Items {
		printPost(w, p, avatars)
	}
	fmt.Fprintf(w, "\nPage %d, %d post(s) total", pageNum, page.Total)
	if page.HasMore {
		fmt.Fprintf(w, ", more with --page %d", pageNum+1)
	}
	fmt.Fprintln(w)
}

func printUser(w io.Writer, u *feed.User, avatars feed.AvatarGenerator) {
	fmt.Fprintf(w, "[%s] %s <%s>  %s\n", u.ID, u.Name, u.Email, u.Role)
	fmt.Fprintf(w, "    avatar: %s\n", avatars.UserAvatar(u, 64))
}

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var verr feed.ValidationError
	if errors.As(err, &verr) {
		return "invalid input: " + verr.Error()
	}

	var rerr *resource.Error
	if errors.As(err, &rerr) {
		return rerr.Message
	}

	if errors.Is(err, feed.ErrNotLoggedIn) {
		return "you are not logged in: run `feed login`"
	}
	return err.Error()
}
