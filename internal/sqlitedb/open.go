package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a connection to the sqlite database stored at file.
//
// When readwrite is true, the parent directory is created if needed and
// the database is opened in WAL mode.
func Open(ctx context.Context, file string, readwrite bool) (*sql.DB, error) {
	if readwrite {
		err := os.MkdirAll(filepath.Dir(file), 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory to store %v, cause %w", file, err)
		}
	}
	var connstr string
	if readwrite {
		connstr = fmt.Sprintf("file:%v?_writable_schema=false&_journal=wal&_busy_timeout=5000&mode=rwc", file)
	} else {
		connstr = fmt.Sprintf("file:%v?_writable_schema=false&mode=ro", file)
	}
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %w", file, err)
	}
	return conn, nil
}

// Migrate runs each statement in order, stopping at the first error
func Migrate(ctx context.Context, db *sql.DB, stmts ...string) error {
	for _, cmd := range stmts {
		_, err := db.ExecContext(ctx, cmd)
		if err != nil {
			return fmt.Errorf("unable to run migration, cause %w", err)
		}
	}
	return nil
}
