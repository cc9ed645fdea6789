package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/samaanhq/authcore/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := dataDir + "/authcore.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	// Run migrations
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) GetUser(username string) (*domain.User, error) {
	ctx := context.Background()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, fingerprint, created_at
		 FROM users WHERE username = ?`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) CreateUser(user *domain.User) error {
	ctx := context.Background()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, fingerprint, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Username, nullable(user.PasswordHash), nullable(user.Fingerprint), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		user.ID = id
	}
	return nil
}

func (s *Store) SetFingerprint(username, sample string) error {
	ctx := context.Background()
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET fingerprint = ? WHERE username = ?`, sample, username)
	if err != nil {
		return fmt.Errorf("update fingerprint: %w", err)
	}

	matched, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if matched == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListEnrolled returns every account with an enrolled fingerprint, oldest
// first, so that identification tie-breaks are deterministic.
func (s *Store) ListEnrolled() ([]*domain.User, error) {
	ctx := context.Background()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password_hash, fingerprint, created_at
		 FROM users WHERE fingerprint IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list enrolled: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	var passwordHash, fingerprint sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &passwordHash, &fingerprint, &user.CreatedAt); err != nil {
		return nil, err
	}
	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if fingerprint.Valid {
		user.Fingerprint = &fingerprint.String
	}
	return &user, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
