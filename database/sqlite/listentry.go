package sqlite

import (
	"context"
	"time"

	"github.com/mediatracker/mediatracker-server/database/model"
)

// AddListEntry records a membership for (userID, itemID, category).
// The composite primary key makes this idempotent: an entry that already
// exists is left untouched and no error is returned.
func (s *SqliteRepo) AddListEntry(ctx context.Context, userID, itemID, category string) error {
	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `INSERT OR IGNORE INTO list_entries (userid, itemid, category, created)
		VALUES (:userid, :itemid, :category, :created)`
	if _, err := tx.NamedExecContext(ctx, query, map[string]any{
		"userid":   userID,
		"itemid":   itemID,
		"category": category,
		"created":  time.Now().UTC(),
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveListEntry deletes a membership. Removing a row that does not exist
// is a successful no-op.
func (s *SqliteRepo) RemoveListEntry(ctx context.Context, userID, itemID, category string) error {
	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `DELETE FROM list_entries WHERE userid=? AND itemid=? AND category=?`
	if _, err := tx.ExecContext(ctx, query, userID, itemID, category); err != nil {
		return err
	}
	return tx.Commit()
}

// GetListEntries returns all memberships of a user for one kind and
// category, joined with the item metadata.
func (s *SqliteRepo) GetListEntries(ctx context.Context, userID string, kind model.ItemKind, category string) ([]model.ListEntry, error) {
	var rows []struct {
		UserID   string    `db:"userid"`
		Category string    `db:"category"`
		Added    time.Time `db:"added"`
		dbItem
	}
	const query = `SELECT l.userid AS userid, l.category AS category, l.created AS added,
		i.id, i.kind, i.tmdbid, i.title, i.overview, i.year, i.genre, i.director, i.imageurl, i.created
		FROM list_entries l
		JOIN items i ON i.id = l.itemid
		WHERE l.userid=? AND l.category=? AND i.kind=?`
	if err := s.dbReadHandle.SelectContext(ctx, &rows, query, userID, category, string(kind)); err != nil {
		return nil, err
	}

	entries := make([]model.ListEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.ListEntry{
			UserID:   row.UserID,
			Category: row.Category,
			Created:  row.Added,
			Item:     row.dbItem.model(),
		})
	}
	return entries, nil
}
