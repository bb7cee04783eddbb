package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrebq/authbox/internal/sqlitedb"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

type (
	// Directory is a sqlite backed Store.
	//
	// Email lookups go through an xxhash64 index column, the email itself
	// is compared afterwards to rule out collisions.
	Directory struct {
		db    *sql.DB
		owned bool
		now   func() time.Time
	}
)

const (
	userColumns = `id, email, hashed_password, session_id, reset_token, first_name, last_name, created_at, updated_at`
)

// OpenDirectory opens (or creates) the sqlite database at file and
// returns a Directory that owns the connection.
func OpenDirectory(ctx context.Context, file string) (*Directory, error) {
	db, err := sqlitedb.Open(ctx, file, true)
	if err != nil {
		return nil, err
	}
	d, err := NewDirectory(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	d.owned = true
	return d, nil
}

// NewDirectory uses db to store users, the caller keeps ownership of db
func NewDirectory(ctx context.Context, db *sql.DB) (*Directory, error) {
	d := &Directory{db: db, now: time.Now}
	err := sqlitedb.Migrate(ctx, db,
		`create table if not exists users(
			id text not null primary key,
			email text not null unique,
			email_hash64 integer not null,
			hashed_password text not null,
			session_id text not null default '',
			reset_token text not null default '',
			first_name text not null default '',
			last_name text not null default '',
			created_at integer not null,
			updated_at integer not null
		)`,
		`create index if not exists idx_users_email_hash64
			on users(email_hash64)`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to setup users table, cause %w", err)
	}
	return d, nil
}

// DB returns the underlying connection
func (d *Directory) DB() *sql.DB {
	return d.db
}

func (d *Directory) Add(ctx context.Context, u *User) error {
	if len(u.Email) == 0 {
		return InvalidUser{Reason: "email is required"}
	}
	if len(u.HashedPassword) == 0 {
		return InvalidUser{Reason: "password is required"}
	}
	if len(u.ID) == 0 {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("unable to generate user id, cause %w", err)
		}
		u.ID = id.String()
	}
	now := d.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	_, err := d.db.ExecContext(ctx, `insert into users(`+userColumns+`, email_hash64)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.HashedPassword, u.SessionID, u.ResetToken, u.FirstName, u.LastName,
		u.CreatedAt.UnixNano(), u.UpdatedAt.UnixNano(), emailHash(u.Email))
	if isUniqueViolation(err) {
		return DuplicateEmail{Email: u.Email}
	} else if err != nil {
		return fmt.Errorf("unable to store user, cause %w", err)
	}
	return nil
}

func (d *Directory) Search(ctx context.Context, f Filter) ([]User, error) {
	var where []string
	var args []interface{}
	if f.ID != "" {
		where = append(where, "id = ?")
		args = append(args, f.ID)
	}
	if f.Email != "" {
		where = append(where, "email_hash64 = ? and email = ?")
		args = append(args, emailHash(f.Email), f.Email)
	}
	if f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.ResetToken != "" {
		where = append(where, "reset_token = ?")
		args = append(args, f.ResetToken)
	}
	query := `select ` + userColumns + ` from users`
	if len(where) > 0 {
		query = fmt.Sprintf("%v where %v", query, strings.Join(where, " and "))
	}
	query += " order by created_at asc"
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to search users, cause %w", err)
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		var created, updated int64
		err = rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.SessionID, &u.ResetToken,
			&u.FirstName, &u.LastName, &created, &updated)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user, cause %w", err)
		}
		u.CreatedAt = time.Unix(0, created).UTC()
		u.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}

func (d *Directory) Update(ctx context.Context, u *User) error {
	if len(u.ID) == 0 {
		return InvalidUser{Reason: "id is required"}
	}
	u.UpdatedAt = d.now().UTC()
	res, err := d.db.ExecContext(ctx, `update users set
		email = ?, email_hash64 = ?, hashed_password = ?, session_id = ?, reset_token = ?,
		first_name = ?, last_name = ?, updated_at = ?
		where id = ?`,
		u.Email, emailHash(u.Email), u.HashedPassword, u.SessionID, u.ResetToken,
		u.FirstName, u.LastName, u.UpdatedAt.UnixNano(), u.ID)
	if isUniqueViolation(err) {
		return DuplicateEmail{Email: u.Email}
	} else if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", u.ID, err)
	} else if n == 0 {
		return UserNotFound{Filter: Filter{ID: u.ID}}
	}
	return nil
}

func (d *Directory) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unable to count users, cause %w", err)
	}
	return n, nil
}

// Close releases the database if the directory opened it
func (d *Directory) Close() error {
	if !d.owned {
		return nil
	}
	return d.db.Close()
}

func emailHash(email string) int64 {
	return int64(xxhash.Sum64String(email))
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
