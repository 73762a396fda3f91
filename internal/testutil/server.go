package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"feed-go/internal/feed"
	"feed-go/internal/server"
)

// NewTestServer serves s over HTTP for the duration of the test and returns
// the running server. Its URL is a valid resource store base URL.
func NewTestServer(t *testing.T, s feed.ResourceStore) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(server.NewServer(s, feed.NewNopLogger(), FixedClock()).Handler())
	t.Cleanup(srv.Close)
	return srv
}
