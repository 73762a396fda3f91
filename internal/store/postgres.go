package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"feed-go/internal/feed"
)

//go:embed postgres_schema.sql
var postgresSchema string

// PgxPool is the subset of *pgxpool.Pool the Postgres store uses.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements feed.ResourceStore on PostgreSQL through a pgx pool.
// Lists come back in insertion order (the seq column).
type PostgresStore struct {
	pool  PgxPool
	idgen feed.IDGenerator
}

// NewPostgresStore connects to dsn, verifies the connection and creates the
// tables if they do not exist yet.
func NewPostgresStore(ctx context.Context, dsn string, idgen feed.IDGenerator) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &PostgresStore{pool: pool, idgen: idgen}, nil
}

// NewPostgresStoreFromPool wraps a pool whose schema already exists.
func NewPostgresStoreFromPool(pool PgxPool, idgen feed.IDGenerator) *PostgresStore {
	return &PostgresStore{pool: pool, idgen: idgen}
}

// Post operations

func (r *PostgresStore) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+postColumns+" FROM posts ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*feed.Post
	for rows.Next() {
		p, err := scanPostPg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostgresStore) GetPost(ctx context.Context, id string) (*feed.Post, error) {
	p, err := scanPostPg(r.pool.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding post: %w", err)
	}
	return p, nil
}

func (r *PostgresStore) CreatePost(ctx context.Context, p *feed.Post) (*feed.Post, error) {
	stored := *p
	if stored.ID == "" {
		stored.ID = r.idgen.New()
	}

	_, err := r.pool.Exec(ctx,
		"INSERT INTO posts ("+postColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		stored.ID, stored.UserID, stored.UserName, stored.Avatar, stored.Title, stored.Description,
		stored.Type, stored.URL, stored.Status, stored.CreateDate, stored.UpdateDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return &stored, nil
}

func (r *PostgresStore) UpdatePost(ctx context.Context, id string, u *feed.PostUpdate) (*feed.Post, error) {
	var updated *feed.Post
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		p, err := scanPostPg(tx.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("finding post: %w", err)
		}
		u.Apply(p)

		_, err = tx.Exec(ctx,
			"UPDATE posts SET title = $1, description = $2, type = $3, url = $4, status = $5, update_date = $6 WHERE id = $7",
			p.Title, p.Description, p.Type, p.URL, p.Status, p.UpdateDate, id,
		)
		if err != nil {
			return fmt.Errorf("updating post: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresStore) DeletePost(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "posts", id)
}

// User operations

func (r *PostgresStore) ListUsers(ctx context.Context) ([]*feed.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*feed.User
	for rows.Next() {
		u, err := scanUserPg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresStore) GetUser(ctx context.Context, id string) (*feed.User, error) {
	u, err := scanUserPg(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

func (r *PostgresStore) CreateUser(ctx context.Context, u *feed.User) (*feed.User, error) {
	stored := *u
	if stored.ID == "" {
		stored.ID = r.idgen.New()
	}

	_, err := r.pool.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		stored.ID, stored.Name, stored.Email, stored.Password, stored.Role, stored.Avatar,
		stored.CreateDate, stored.UpdateDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &stored, nil
}

func (r *PostgresStore) UpdateUser(ctx context.Context, id string, upd *feed.UserUpdate) (*feed.User, error) {
	var updated *feed.User
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		u, err := scanUserPg(tx.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("finding user: %w", err)
		}
		upd.Apply(u)

		_, err = tx.Exec(ctx,
			"UPDATE users SET name = $1, email = $2, password = $3, role = $4, avatar = $5, update_date = $6 WHERE id = $7",
			u.Name, u.Email, u.Password, u.Role, u.Avatar, u.UpdateDate, id,
		)
		if err != nil {
			return fmt.Errorf("updating user: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "users", id)
}

func (r *PostgresStore) deleteByID(ctx context.Context, table, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, id, feed.ErrNotFound)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}

func scanPostPg(row pgx.Row) (*feed.Post, error) {
	var p feed.Post
	err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.Avatar, &p.Title, &p.Description,
		&p.Type, &p.URL, &p.Status, &p.CreateDate, &p.UpdateDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanUserPg(row pgx.Row) (*feed.User, error) {
	var u feed.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Avatar, &u.CreateDate, &u.UpdateDate)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Compile-time check that PostgresStore implements feed.ResourceStore
var _ feed.ResourceStore = (*PostgresStore)(nil)

var _ PgxPool = (*pgxpool.Pool)(nil)
