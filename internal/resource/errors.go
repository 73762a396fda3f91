package resource

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"feed-go/internal/feed"
)

// Error is returned for every failed resource store request. Message is meant
// for display: the server's own message when it sent one, otherwise the
// transport error text, otherwise a fixed message for the operation.
type Error struct {
	Op      string
	Status  int // 0 when the request never got a response
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes feed.ErrNotFound for 404 responses and the transport error otherwise.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return feed.ErrNotFound
	}
	return e.Err
}

type operation int

const (
	opListPosts operation = iota
	opGetPost
	opCreatePost
	opUpdatePost
	opDeletePost
	opListUsers
	opGetUser
	opCreateUser
	opUpdateUser
	opDeleteUser
)

var operationNames = map[operation]string{
	opListPosts:  "ListPosts",
	opGetPost:    "GetPost",
	opCreatePost: "CreatePost",
	opUpdatePost: "UpdatePost",
	opDeletePost: "DeletePost",
	opListUsers:  "ListUsers",
	opGetUser:    "GetUser",
	opCreateUser: "CreateUser",
	opUpdateUser: "UpdateUser",
	opDeleteUser: "DeleteUser",
}

var defaultMessages = map[operation]string{
	opListPosts:  "could not load posts",
	opGetPost:    "could not load post",
	opCreatePost: "could not create post",
	opUpdatePost: "could not update post",
	opDeletePost: "could not delete post",
	opListUsers:  "could not load users",
	opGetUser:    "could not load user",
	opCreateUser: "could not create user",
	opUpdateUser: "could not update user",
	opDeleteUser: "could not delete user",
}

func (op operation) String() string { return operationNames[op] }

func (op operation) defaultMessage() string { return defaultMessages[op] }

// serverMessage extracts a display message from an error body: a JSON object
// with a "message" (or "error") field, or a bare JSON string.
func serverMessage(body []byte, op operation) string {
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if m := strings.TrimSpace(obj.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(obj.Error); m != "" {
			return m
		}
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}

	return op.defaultMessage()
}

func transportMessage(err error, op operation) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return op.defaultMessage()
	}
	return err.Error()
}

// IsStatus reports whether err is a resource Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}
