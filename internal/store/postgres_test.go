package store_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-go/internal/feed"
	"feed-go/internal/store"
	"feed-go/internal/testutil"
)

// scanValues copies values into Scan destinations of matching types.
func scanValues(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanValues(dest, r.values)
}

type fakeRows struct {
	pgx.Rows
	values [][]any
	next   int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.next >= len(r.values) {
		return false
	}
	r.next++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return scanValues(dest, r.values[r.next-1]) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 { r.closed = true }

// fakePool answers every query from canned results and records the SQL it saw.
type fakePool struct {
	sql  []string
	rows [][]any
	row  fakeRow
	tag  string
	tx   *fakeTx
}

func (p *fakePool) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.sql = append(p.sql, sql)
	return &fakeRows{values: p.rows}, nil
}

func (p *fakePool) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	p.sql = append(p.sql, sql)
	return p.row
}

func (p *fakePool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.sql = append(p.sql, sql)
	return pgconn.NewCommandTag(p.tag), nil
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	p.tx = &fakeTx{pool: p}
	return p.tx, nil
}

func (p *fakePool) Close() {}

type fakeTx struct {
	pgx.Tx
	pool       *fakePool
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.pool.QueryRow(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.pool.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed || tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

func postRow(id, title string, created time.Time) []any {
	return []any{id, "u1", "Ana", "", title, "about " + title, feed.MediaImage,
		"https://example.com/" + title + ".png", feed.StatusActive, created, (*time.Time)(nil)}
}

func TestPostgresStore_ListPostsInSeqOrder(t *testing.T) {
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	pool := &fakePool{rows: [][]any{
		postRow("b", "older id, inserted first", base.Add(time.Hour)),
		postRow("a", "inserted second", base),
	}}
	s := store.NewPostgresStoreFromPool(pool, testutil.NewStubIDGenerator())

	posts, err := s.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].ID)
	assert.Equal(t, "a", posts[1].ID)
	assert.Nil(t, posts[0].UpdateDate)
	assert.True(t, posts[1].CreateDate.Equal(base))

	require.Len(t, pool.sql, 1)
	assert.Contains(t, pool.sql[0], "ORDER BY seq")
}

func TestPostgresStore_NoRowsIsNotFound(t *testing.T) {
	ctx := context.Background()
	title := "t"

	tests := []struct {
		name string
		call func(s *store.PostgresStore) error
	}{
		{"get post", func(s *store.PostgresStore) error {
			_, err := s.GetPost(ctx, "ghost")
			return err
		}},
		{"get user", func(s *store.PostgresStore) error {
			_, err := s.GetUser(ctx, "ghost")
			return err
		}},
		{"update post", func(s *store.PostgresStore) error {
			_, err := s.UpdatePost(ctx, "ghost", &feed.PostUpdate{Title: &title})
			return err
		}},
		{"update user", func(s *store.PostgresStore) error {
			_, err := s.UpdateUser(ctx, "ghost", &feed.UserUpdate{Name: &title})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &fakePool{row: fakeRow{err: pgx.ErrNoRows}}
			s := store.NewPostgresStoreFromPool(pool, testutil.NewStubIDGenerator())

			err := tt.call(s)
			assert.ErrorIs(t, err, feed.ErrNotFound)
			assert.NotErrorIs(t, err, pgx.ErrNoRows)
			if pool.tx != nil {
				assert.True(t, pool.tx.rolledBack, "transaction not rolled back")
				assert.False(t, pool.tx.committed, "transaction committed")
			}
		})
	}
}

func TestPostgresStore_OtherErrorsAreKept(t *testing.T) {
	errBoom := errors.New("connection reset")
	pool := &fakePool{row: fakeRow{err: errBoom}}
	s := store.NewPostgresStoreFromPool(pool, testutil.NewStubIDGenerator())

	_, err := s.GetPost(context.Background(), "p1")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, feed.ErrNotFound)
}

func TestPostgresStore_Delete(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr error
	}{
		{"row removed", "DELETE 1", nil},
		{"nothing removed", "DELETE 0", feed.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &fakePool{tag: tt.tag}
			s := store.NewPostgresStoreFromPool(pool, testutil.NewStubIDGenerator())

			err := s.DeletePost(context.Background(), "p1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, []string{"DELETE FROM posts WHERE id = $1"}, pool.sql)
		})
	}
}

func TestPostgresStore_UpdateCommits(t *testing.T) {
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	pool := &fakePool{row: fakeRow{values: postRow("p1", "before", base)}, tag: "UPDATE 1"}
	s := store.NewPostgresStoreFromPool(pool, testutil.NewStubIDGenerator())

	title := "after"
	stamp := base.Add(time.Hour)
	got, err := s.UpdatePost(context.Background(), "p1", &feed.PostUpdate{Title: &title, UpdateDate: &stamp})
	require.NoError(t, err)

	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "about before", got.Description)
	require.NotNil(t, got.UpdateDate)
	assert.True(t, got.UpdateDate.Equal(stamp))
	assert.True(t, pool.tx.committed)
	assert.Contains(t, pool.sql[0], "FOR UPDATE")
}
