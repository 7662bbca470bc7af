package sqlite

import (
	"context"
	"log"
	"time"

	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/idhash"
)

// CreateSession issues a new session token for a user.
func (s *SqliteRepo) CreateSession(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session := &model.Session{
		Token:    idhash.NewRandomID(),
		UserID:   userID,
		Created:  now,
		LastUsed: now,
	}
	if err := s.storeSession(ctx, session); err != nil {
		return "", err
	}
	s.sessionCache[session.Token] = session

	return session.Token, nil
}

// GetSession returns session details for a token.
func (s *SqliteRepo) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try the in-memory store first
	if session, ok := s.sessionCache[token]; ok {
		// Update timestamp so we can keep track of in-use sessions
		session.LastUsed = time.Now().UTC()
		return session, nil
	}

	// try database
	var row struct {
		Token    string    `db:"token"`
		UserID   string    `db:"userid"`
		Created  time.Time `db:"created"`
		LastUsed time.Time `db:"lastused"`
	}
	const query = `SELECT token, userid, created, lastused FROM sessions WHERE token=? LIMIT 1`
	if err := s.dbReadHandle.GetContext(ctx, &row, query, token); err != nil {
		return nil, model.ErrNotFound
	}

	session := &model.Session{
		Token:    row.Token,
		UserID:   row.UserID,
		Created:  row.Created,
		LastUsed: time.Now().UTC(),
	}
	s.sessionCache[token] = session
	return session, nil
}

// DeleteSession revokes a session token.
func (s *SqliteRepo) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessionCache, token)

	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE token=?`, token); err != nil {
		return err
	}
	return tx.Commit()
}

// sessionBackgroundJob flushes updated session timestamps to the database
// until the context is cancelled.
func (s *SqliteRepo) sessionBackgroundJob(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	s.sessionCacheSyncTime = time.Now().UTC()
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.writeChangedSessionsToDB(ctx); err != nil {
				log.Printf("Error writing sessions to db: %s\n", err)
			}
		}
	}
}

// writeChangedSessionsToDB persists sessions used since the last sync.
func (s *SqliteRepo) writeChangedSessionsToDB(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessionCache {
		if session.LastUsed.After(s.sessionCacheSyncTime) {
			if err := s.storeSession(ctx, session); err != nil {
				return err
			}
		}
	}
	s.sessionCacheSyncTime = time.Now().UTC()
	return nil
}

// storeSession writes one session row. Callers hold s.mu.
func (s *SqliteRepo) storeSession(ctx context.Context, session *model.Session) error {
	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `INSERT OR REPLACE INTO sessions (token, userid, created, lastused)
		VALUES (:token, :userid, :created, :lastused)`
	if _, err := tx.NamedExecContext(ctx, query, map[string]any{
		"token":    session.Token,
		"userid":   session.UserID,
		"created":  session.Created,
		"lastused": session.LastUsed,
	}); err != nil {
		return err
	}
	return tx.Commit()
}
