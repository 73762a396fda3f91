package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feed-go/internal/feed"
	"feed-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements feed.ResourceStore on a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	idgen feed.IDGenerator
	path  string
}

// NewSQLiteStore opens the database at path (or ":memory:"), brings its schema
// up to date and returns the store.
func NewSQLiteStore(path string, idgen feed.IDGenerator) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, idgen: idgen, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an already opened and migrated connection.
func NewSQLiteStoreFromDB(db *sql.DB, idgen feed.IDGenerator) *SQLiteStore {
	return &SQLiteStore{db: db, idgen: idgen}
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

const postColumns = "id, user_id, user_name, avatar, title, description, type, url, status, create_date, update_date"

const userColumns = "id, name, email, password, role, avatar, create_date, update_date"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*feed.Post, error) {
	var (
		p       feed.Post
		updated sql.NullTime
	)
	err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.Avatar, &p.Title, &p.Description,
		&p.Type, &p.URL, &p.Status, &p.CreateDate, &updated)
	if err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		p.UpdateDate = &t
	}
	return &p, nil
}

func scanUser(row rowScanner) (*feed.User, error) {
	var (
		u       feed.User
		updated sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Avatar, &u.CreateDate, &updated)
	if err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		u.UpdateDate = &t
	}
	return &u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Post operations

func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*feed.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*feed.Post, error) {
	return s.getPost(ctx, s.db, id)
}

func (s *SQLiteStore) getPost(ctx context.Context, q querier, id string) (*feed.Post, error) {
	p, err := scanPost(q.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
		}
		return nil, fmt.Errorf("finding post: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) CreatePost(ctx context.Context, p *feed.Post) (*feed.Post, error) {
	stored := *p
	if stored.ID == "" {
		stored.ID = s.idgen.New()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts ("+postColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		stored.ID, stored.UserID, stored.UserName, stored.Avatar, stored.Title, stored.Description,
		stored.Type, stored.URL, stored.Status, stored.CreateDate, nullTime(stored.UpdateDate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return &stored, nil
}

func (s *SQLiteStore) UpdatePost(ctx context.Context, id string, u *feed.PostUpdate) (*feed.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := s.getPost(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(p)

	_, err = tx.ExecContext(ctx,
		"UPDATE posts SET title = ?, description = ?, type = ?, url = ?, status = ?, update_date = ? WHERE id = ?",
		p.Title, p.Description, p.Type, p.URL, p.Status, nullTime(p.UpdateDate), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "posts", id)
}

// User operations

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*feed.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*feed.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*feed.User, error) {
	return s.getUser(ctx, s.db, id)
}

func (s *SQLiteStore) getUser(ctx context.Context, q querier, id string) (*feed.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *feed.User) (*feed.User, error) {
	stored := *u
	if stored.ID == "" {
		stored.ID = s.idgen.New()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		stored.ID, stored.Name, stored.Email, stored.Password, stored.Role, stored.Avatar,
		stored.CreateDate, nullTime(stored.UpdateDate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &stored, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, upd *feed.UserUpdate) (*feed.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	u, err := s.getUser(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(u)

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password = ?, role = ?, avatar = ?, update_date = ? WHERE id = ?",
		u.Name, u.Email, u.Password, u.Role, u.Avatar, nullTime(u.UpdateDate), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "users", id)
}

func (s *SQLiteStore) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, feed.ErrNotFound)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.Check(s.db)
}

// SchemaStatus reports the database's schema version against the embedded migrations.
func (s *SQLiteStore) SchemaStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements feed.ResourceStore
var _ feed.ResourceStore = (*SQLiteStore)(nil)
