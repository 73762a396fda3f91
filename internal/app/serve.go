package app

import (
	"context"
	"fmt"
	"os"

	"feed-go/internal/config"
	"feed-go/internal/feed"
	"feed-go/internal/server"
	"feed-go/internal/store"
	"feed-go/internal/store/migrations"
)

// StoreApp wires the local resource store and its HTTP server from config.
// The caller must call Close when done.
type StoreApp struct {
	cfg     *config.Config
	store   store.Store
	server  *server.Server
	logger  feed.Logger
	op      *Operation
	logFile *os.File
}

// NewStoreApp opens the configured store backend, migrating it if needed.
func NewStoreApp(ctx context.Context, cfg *config.Config, operation string, verbose bool) (*StoreApp, error) {
	clock := feed.RealClock{}
	op := NewOperation(operation, cfg.Store.Type, clock.Now())

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	s, err := store.NewStoreFromConfig(ctx, cfg.Store, feed.UUIDGenerator{})
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &StoreApp{
		cfg:     cfg,
		store:   s,
		server:  server.NewServer(s, logger, clock),
		logger:  logger,
		op:      op,
		logFile: logFile,
	}, nil
}

// Serve runs the HTTP server on addr (the configured listen address when
// empty) until ctx is cancelled.
func (a *StoreApp) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.Store.Listen
	}
	if addr == "" {
		return a.op.Record(fmt.Errorf("no listen address configured"))
	}
	return a.op.Record(a.server.ListenAndServe(ctx, addr))
}

// sqliteStore returns the backend as a SQLite store, or an error naming the
// configured type for backends without file-level maintenance.
func (a *StoreApp) sqliteStore() (*store.SQLiteStore, error) {
	s, ok := a.store.(*store.SQLiteStore)
	if !ok {
		return nil, fmt.Errorf("store type %q does not support this command", a.cfg.Store.Type)
	}
	return s, nil
}

// Status returns the SQLite database path and its schema status. The error
// is non-nil when the schema is not exactly current; status is still filled in.
func (a *StoreApp) Status() (string, migrations.Status, error) {
	s, err := a.sqliteStore()
	if err != nil {
		return "", migrations.Status{}, a.op.Record(err)
	}
	status, err := s.SchemaStatus()
	if err != nil {
		return s.Path(), status, a.op.Record(err)
	}
	return s.Path(), status, a.op.Record(status.Err())
}

// Backup writes a consistent copy of the SQLite database to dest.
func (a *StoreApp) Backup(dest string) error {
	s, err := a.sqliteStore()
	if err != nil {
		return a.op.Record(err)
	}
	if _, err := os.Stat(dest); err == nil {
		return a.op.Record(fmt.Errorf("%s already exists", dest))
	}
	if err := s.BackupTo(dest); err != nil {
		return a.op.Record(err)
	}
	a.logger.Info("store backed up", "dest", dest)
	return nil
}

// Close closes the store and the log file.
func (a *StoreApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	a.logger.Info("operation finished", "operation", a.op.Name, "status", a.op.Status)
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
