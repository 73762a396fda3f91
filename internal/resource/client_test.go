package resource_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feed-go/internal/feed"
	"feed-go/internal/resource"
	"feed-go/internal/testutil"
)

func newClient(t *testing.T) (*resource.Client, feed.ResourceStore) {
	t.Helper()
	store := testutil.NewTestStore(t)
	srv := testutil.NewTestServer(t, store)
	return resource.NewClient(srv.URL, feed.NewNopLogger()), store
}

func TestClient_PostLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	created, err := client.CreatePost(ctx, &feed.Post{
		UserID:      "u1",
		UserName:    "Ana",
		Title:       "Sunset",
		Description: "Golden hour",
		Type:        feed.MediaImage,
		URL:         "https://example.com/sunset.png",
		Status:      feed.StatusActive,
		CreateDate:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreatePost() returned no ID")
	}

	got, err := client.GetPost(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if got.Title != "Sunset" || got.UserID != "u1" {
		t.Errorf("GetPost() = %+v", got)
	}
	if !got.CreateDate.Equal(created.CreateDate) {
		t.Errorf("CreateDate = %v, want %v", got.CreateDate, created.CreateDate)
	}

	title := "Sunrise"
	updated, err := client.UpdatePost(ctx, created.ID, &feed.PostUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if updated.Title != "Sunrise" {
		t.Errorf("Title = %q, want %q", updated.Title, "Sunrise")
	}
	if updated.Description != "Golden hour" {
		t.Errorf("partial update changed Description to %q", updated.Description)
	}

	posts, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ListPosts() returned %d posts, want 1", len(posts))
	}

	if err := client.DeletePost(ctx, created.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, err := client.GetPost(ctx, created.ID); !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("GetPost() after delete error = %v, want ErrNotFound", err)
	}
}

func TestClient_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	client, store := newClient(t)

	seeded := testutil.SeedUser(t, store, "Bo", "bo@example.com", "pw", feed.RoleUser)

	users, err := client.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].Email != "bo@example.com" {
		t.Fatalf("ListUsers() = %+v", users)
	}
	if users[0].Password != "pw" {
		t.Errorf("ListUsers() should return stored password")
	}

	role := feed.RoleAdmin
	updated, err := client.UpdateUser(ctx, seeded.ID, &feed.UserUpdate{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if updated.Role != feed.RoleAdmin || updated.Name != "Bo" {
		t.Errorf("UpdateUser() = %+v", updated)
	}

	created, err := client.CreateUser(ctx, &feed.User{Name: "Cy", Email: "cy@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Role != feed.RoleUser {
		t.Errorf("CreateUser() role = %q, want server default %q", created.Role, feed.RoleUser)
	}

	if err := client.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := client.GetUser(ctx, created.ID); !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("GetUser() after delete error = %v, want ErrNotFound", err)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantStatus  int
	}{
		{
			name:        "message field",
			status:      http.StatusBadRequest,
			body:        `{"message":"title too long"}`,
			wantMessage: "title too long",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "error field",
			status:      http.StatusInternalServerError,
			body:        `{"error":"database unavailable"}`,
			wantMessage: "database unavailable",
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:        "bare string",
			status:      http.StatusNotFound,
			body:        `"Not found"`,
			wantMessage: "Not found",
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "no usable body falls back to the operation message",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "could not load posts",
			wantStatus:  http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := resource.NewClient(srv.URL, feed.NewNopLogger())
			_, err := client.ListPosts(context.Background())
			if err == nil {
				t.Fatal("ListPosts() expected error")
			}

			var rerr *resource.Error
			if !errors.As(err, &rerr) {
				t.Fatalf("error type = %T, want *resource.Error", err)
			}
			if rerr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", rerr.Message, tt.wantMessage)
			}
			if !resource.IsStatus(err, tt.wantStatus) {
				t.Errorf("status = %d, want %d", rerr.Status, tt.wantStatus)
			}
		})
	}
}

func TestClient_DecodesStoredDateForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/posts":
			w.Write([]byte(`[
				{"id":"1","title":"zoned","status":"active","createDate":"2024-01-15T10:00:00Z","updateDate":"2024-01-16T08:30:00+02:00"},
				{"id":"2","title":"no zone","status":"active","createDate":"2024-01-15T10:00:00"},
				{"id":"3","title":"fraction","status":"active","createDate":"2024-01-15T10:00:00.250"},
				{"id":"4","title":"date only","status":"active","createDate":"2024-01-15","updateDate":""},
				{"id":"5","title":"missing","status":"active","createDate":null,"updateDate":null}
			]`))
		case "/users":
			w.Write([]byte(`[{"id":"7","name":"Ana","email":"ana@example.com","role":"User","createDate":"2024-01-15"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := resource.NewClient(srv.URL, feed.NewNopLogger())
	posts, err := client.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 5 {
		t.Fatalf("ListPosts() returned %d posts, want 5", len(posts))
	}

	tenUTC := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		id          string
		wantCreate  time.Time
		wantUpdated bool
	}{
		{"1", tenUTC, true},
		{"2", tenUTC, false},
		{"3", tenUTC.Add(250 * time.Millisecond), false},
		{"4", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"5", time.Time{}, false},
	}
	for i, tt := range tests {
		p := posts[i]
		if p.ID != tt.id {
			t.Fatalf("posts[%d].ID = %q, want %q", i, p.ID, tt.id)
		}
		if !p.CreateDate.Equal(tt.wantCreate) {
			t.Errorf("post %s CreateDate = %v, want %v", p.ID, p.CreateDate, tt.wantCreate)
		}
		if (p.UpdateDate != nil) != tt.wantUpdated {
			t.Errorf("post %s UpdateDate = %v, want set %v", p.ID, p.UpdateDate, tt.wantUpdated)
		}
	}
	if want := time.Date(2024, 1, 16, 6, 30, 0, 0, time.UTC); !posts[0].UpdateDate.Equal(want) {
		t.Errorf("UpdateDate = %v, want %v", posts[0].UpdateDate, want)
	}

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].CreateDate.Year() != 2024 {
		t.Errorf("ListUsers() = %+v", users)
	}
}

func TestClient_NotFoundUnwraps(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.GetPost(context.Background(), "missing")
	if !errors.Is(err, feed.ErrNotFound) {
		t.Fatalf("GetPost() error = %v, want ErrNotFound", err)
	}
	if err.Error() != "Not found" {
		t.Errorf("Error() = %q, want server message", err.Error())
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := resource.NewClient(url, feed.NewNopLogger())
	_, err := client.ListUsers(context.Background())
	if err == nil {
		t.Fatal("ListUsers() expected error for unreachable server")
	}

	var rerr *resource.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error type = %T, want *resource.Error", err)
	}
	if rerr.Status != 0 {
		t.Errorf("Status = %d, want 0", rerr.Status)
	}
	if rerr.Err == nil {
		t.Error("transport error not kept")
	}
	if rerr.Message == "" {
		t.Error("Message is empty")
	}
}
