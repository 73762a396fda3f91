package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-go/internal/feed"
)

// GET /posts
func (s *Server) listPosts(c *gin.Context) {
	posts, err := s.store.ListPosts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if posts == nil {
		posts = []*feed.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GET /posts/:id
func (s *Server) getPost(c *gin.Context) {
	p, err := s.store.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /posts
func (s *Server) createPost(c *gin.Context) {
	var in feed.Post
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	// IDs are always assigned by the store.
	in.ID = ""
	if in.CreateDate.IsZero() {
		in.CreateDate = s.clock.Now()
	}
	if in.Status == "" {
		in.Status = feed.StatusActive
	}
	if in.Type == "" {
		in.Type = feed.MediaImage
	}

	p, err := s.store.CreatePost(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /posts/:id
func (s *Server) updatePost(c *gin.Context) {
	var upd feed.PostUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}

	p, err := s.store.UpdatePost(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /posts/:id responds with the removed record.
func (s *Server) deletePost(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /users
func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if users == nil {
		users = []*feed.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GET /users/:id
func (s *Server) getUser(c *gin.Context) {
	u, err := s.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /users
func (s *Server) createUser(c *gin.Context) {
	var in feed.User
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	in.ID = ""
	if in.CreateDate.IsZero() {
		in.CreateDate = s.clock.Now()
	}
	if in.Role == "" {
		in.Role = feed.RoleUser
	}

	u, err := s.store.CreateUser(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /users/:id
func (s *Server) updateUser(c *gin.Context) {
	var upd feed.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}

	u, err := s.store.UpdateUser(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /users/:id responds with the removed record.
func (s *Server) deleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
