// Package auth keeps viewer accounts in SQLite. Signing in is optional;
// guests can view sheets.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("ユーザーは既に存在します")
	ErrInvalidCredentials = errors.New("メールアドレスまたはパスワードが正しくありません")
)

var validate = newValidator()

// maxPasswordBytes is bcrypt's input limit. validator's max counts runes,
// so multi-byte passwords need their own check.
const maxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

type User struct {
	ID        string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignUpParams struct {
	Username string `validate:"required,min=3,max=32,excludesall= @"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72,bcrypt_len"`
}

type SignInParams struct {
	// Login is a username or an email address.
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

// Store handles all account persistence.
type Store struct {
	db   *sql.DB
	cost int
}

// Open opens (creating if needed) the account database at path.
func Open(path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, cost: bcrypt.DefaultCost}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username COLLATE NOCASE)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email COLLATE NOCASE)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SignUp creates an account. Usernames and emails are unique, ignoring case.
func (s *Store) SignUp(ctx context.Context, p SignUpParams) (User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	if err := validate.Struct(p); err != nil {
		return User{}, err
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE OR email = ? COLLATE NOCASE`,
		p.Username, p.Email).Scan(&n)
	if err != nil {
		return User{}, err
	}
	if n > 0 {
		return User{}, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:        uuid.NewString(),
		Username:  p.Username,
		Email:     p.Email,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, hash, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	return u, nil
}

// SignIn checks credentials and returns the matching user.
func (s *Store) SignIn(ctx context.Context, p SignInParams) (User, error) {
	p.Login = strings.TrimSpace(p.Login)
	if err := validate.Struct(p); err != nil {
		return User{}, ErrInvalidCredentials
	}

	var u User
	var hash []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE username = ? COLLATE NOCASE OR email = ? COLLATE NOCASE`,
		p.Login, p.Login).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(p.Password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// User looks an account up by id.
func (s *Store) User(ctx context.Context, id string) (User, bool, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// ValidationMessages turns validator errors into one message per field,
// keyed by struct field name.
func ValidationMessages(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須項目です"
	case "email":
		return "メールアドレスの形式が正しくありません"
	case "min":
		return fe.Param() + "文字以上で入力してください"
	case "max":
		return fe.Param() + "文字以内で入力してください"
	case "excludesall":
		return "空白や@は使えません"
	case "bcrypt_len":
		return "72バイト以内で入力してください（全角文字は1文字3バイトです）"
	}
	return "入力内容が正しくありません"
}
