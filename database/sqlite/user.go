package sqlite

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/idhash"
)

// GetUser retrieves a user by username.
func (s *SqliteRepo) GetUser(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id,
		username,
		password,
		created,
		lastlogin FROM users WHERE username=? LIMIT 1`
	return sqlScanUser(s.dbReadHandle.QueryRowContext(ctx, query, username))
}

// GetUserByID retrieves a user from the database by their ID.
func (s *SqliteRepo) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	const query = `SELECT id,
		username,
		password,
		created,
		lastlogin FROM users WHERE id=? LIMIT 1`
	return sqlScanUser(s.dbReadHandle.QueryRowContext(ctx, query, userID))
}

func sqlScanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Created,
		&user.LastLogin); err != nil {
		return nil, model.ErrNotFound
	}
	return &user, nil
}

// InsertUser creates a new user with a bcrypt-hashed password.
func (s *SqliteRepo) InsertUser(ctx context.Context, username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        idhash.Hash(username),
		Username:  username,
		Password:  string(hashedPassword),
		Created:   now,
		LastLogin: now,
	}

	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const query = `INSERT INTO users (id, username, password, created, lastlogin)
		VALUES (:id, :username, :password, :created, :lastlogin)`
	if _, err := tx.NamedExecContext(ctx, query, map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"password":  user.Password,
		"created":   user.Created,
		"lastlogin": user.LastLogin,
	}); err != nil {
		if isUniqueConstraintErr(err) {
			return nil, model.ErrDuplicate
		}
		return nil, err
	}
	return user, tx.Commit()
}

// ValidateUser checks if the user exists and the password is correct.
func (s *SqliteRepo) ValidateUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.ErrInvalidPassword
	}

	user.LastLogin = time.Now().UTC()
	const query = `UPDATE users SET lastlogin=? WHERE id=?`
	if _, err := s.dbWriteHandle.ExecContext(ctx, query, user.LastLogin, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}
