package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrebq/authbox/internal/sqlitedb"
	"github.com/andrebq/authbox/session"
)

type (
	// SQLite keeps session records in the user_sessions table.
	//
	// Add and Remove are written straight to the database, so Load and
	// Save have nothing to do.
	SQLite struct {
		db *sql.DB
	}
)

func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	err := sqlitedb.Migrate(ctx, db,
		`create table if not exists user_sessions(
			session_id text not null primary key,
			user_id text not null,
			created_at integer not null
		)`,
		`create index if not exists idx_user_sessions_user_id
			on user_sessions(user_id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to setup user_sessions table, cause %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(_ context.Context) error { return nil }

func (s *SQLite) Save(_ context.Context) error { return nil }

func (s *SQLite) Search(ctx context.Context, f session.RecordFilter) ([]session.Record, error) {
	var where []string
	var args []interface{}
	if f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	query := `select session_id, user_id, created_at from user_sessions`
	if len(where) > 0 {
		query = fmt.Sprintf("%v where %v", query, strings.Join(where, " and "))
	}
	query += " order by created_at asc"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to search session records, cause %w", err)
	}
	defer rows.Close()
	var out []session.Record
	for rows.Next() {
		var r session.Record
		var created int64
		err = rows.Scan(&r.SessionID, &r.UserID, &created)
		if err != nil {
			return nil, fmt.Errorf("unable to scan session record, cause %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Add(ctx context.Context, r session.Record) error {
	if len(r.SessionID) == 0 {
		return errors.New("session record without a session id")
	}
	_, err := s.db.ExecContext(ctx, `insert into user_sessions(session_id, user_id, created_at) values (?, ?, ?)
		on conflict (session_id) do update set user_id = excluded.user_id, created_at = excluded.created_at`,
		r.SessionID, r.UserID, r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("unable to store session record, cause %w", err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, r session.Record) error {
	_, err := s.db.ExecContext(ctx, `delete from user_sessions where session_id = ?`, r.SessionID)
	if err != nil {
		return fmt.Errorf("unable to remove session record, cause %w", err)
	}
	return nil
}
