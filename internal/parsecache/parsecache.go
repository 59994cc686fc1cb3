// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package parsecache provides a persistent cache of Lua syntax check results.
package parsecache

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"zombiezen.com/go/log"
	"zombiezen.com/go/nix"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

// keyVersion is mixed into every key.
// Bump it whenever the parser's accepted language or messages change.
const keyVersion = "luaparse-check-1"

// Result is the outcome of checking a single chunk.
type Result struct {
	// OK is true if the chunk parsed without error.
	OK bool
	// Message is the error message for a chunk that failed to parse.
	Message string
}

// Cache is a SQLite-backed store of [Result] values.
// It is safe to use from multiple goroutines.
type Cache struct {
	db  *sqlitemigration.Pool
	now func() time.Time
}

// Open opens the cache database at the given path,
// creating it and its parent directory if necessary.
// Migrations are applied on first use.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return nil, fmt.Errorf("open parse cache: %w", err)
	}
	c := &Cache{
		now: time.Now,
		db: sqlitemigration.NewPool(path, loadSchema(), sqlitemigration.Options{
			Flags:       sqlite.OpenCreate | sqlite.OpenReadWrite,
			PrepareConn: prepareConn,
			OnStartMigrate: func() {
				log.Debugf(context.Background(), "Migrating parse cache %s...", path)
			},
			OnError: func(err error) {
				log.Errorf(context.Background(), "Parse cache migration: %v", err)
			},
		}),
	}
	return c, nil
}

// Close releases the database connections.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the cache key for the given chunk name and source.
// The key is the SHA-256 hash of its inputs in Nix base-32.
func Key(chunkName string, source []byte) string {
	h := nix.NewHasher(nix.SHA256)
	h.WriteString(keyVersion)
	h.WriteString("\x00")
	h.WriteString(chunkName)
	h.WriteString("\x00")
	h.Write(source)
	return h.SumHash().RawBase32()
}

// Get returns the result stored under key.
// Get returns (nil, nil) if there is no such result.
func (c *Cache) Get(ctx context.Context, key string) (*Result, error) {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parse cache: %w", err)
	}
	defer c.db.Put(conn)

	var res *Result
	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "get.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":key": key,
		},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res = &Result{
				OK:      stmt.GetBool("ok"),
				Message: stmt.GetText("message"),
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("read parse cache: %s: %w", key, err)
	}
	if res == nil {
		log.Debugf(ctx, "Parse cache miss for %s", key)
	}
	return res, nil
}

// Put stores a result under key, replacing any previous result.
func (c *Cache) Put(ctx context.Context, key string, res Result) error {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return fmt.Errorf("write parse cache: %w", err)
	}
	defer c.db.Put(conn)

	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "put.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":key":     key,
			":ok":      res.OK,
			":message": res.Message,
			":now":     c.now().UnixMilli(),
		},
	})
	if err != nil {
		return fmt.Errorf("write parse cache: %s: %w", key, err)
	}
	return nil
}

// Prune deletes results recorded before the given time
// and returns the number of results deleted.
func (c *Cache) Prune(ctx context.Context, before time.Time) (int, error) {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune parse cache: %w", err)
	}
	defer c.db.Put(conn)

	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "prune.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":cutoff": before.UnixMilli(),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("prune parse cache: %w", err)
	}
	n := conn.Changes()
	log.Debugf(ctx, "Pruned %d parse cache entries", n)
	return n, nil
}

// Len returns the number of results in the cache.
func (c *Cache) Len(ctx context.Context) (int, error) {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count parse cache: %w", err)
	}
	defer c.db.Put(conn)

	n := 0
	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "count.sql", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = int(stmt.GetInt64("n"))
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count parse cache: %w", err)
	}
	return n, nil
}

func prepareConn(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode = wal;", nil); err != nil {
		return err
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout = 5000;", nil); err != nil {
		return err
	}
	return nil
}

//go:embed sql/*.sql
//go:embed sql/schema/*.sql
var rawSQLFiles embed.FS

func sqlFiles() fs.FS {
	sub, err := fs.Sub(rawSQLFiles, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

var schemaState struct {
	init   sync.Once
	schema sqlitemigration.Schema
	err    error
}

func loadSchema() sqlitemigration.Schema {
	schemaState.init.Do(func() {
		for i := 1; ; i++ {
			migration, err := fs.ReadFile(sqlFiles(), fmt.Sprintf("schema/%02d.sql", i))
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			if err != nil {
				schemaState.err = err
				return
			}
			schemaState.schema.Migrations = append(schemaState.schema.Migrations, string(migration))
		}
	})

	if schemaState.err != nil {
		panic(schemaState.err)
	}
	return schemaState.schema
}
