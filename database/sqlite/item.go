package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mediatracker/mediatracker-server/database/model"
)

type dbItem struct {
	ID       string    `db:"id"`
	Kind     string    `db:"kind"`
	TMDBID   int64     `db:"tmdbid"`
	Title    string    `db:"title"`
	Overview string    `db:"overview"`
	Year     int       `db:"year"`
	Genre    string    `db:"genre"`
	Director string    `db:"director"`
	ImageURL string    `db:"imageurl"`
	Created  time.Time `db:"created"`
}

const itemColumns = `id, kind, tmdbid, title, overview, year, genre, director, imageurl, created`

func (i *dbItem) model() model.Item {
	return model.Item{
		ID:       i.ID,
		Kind:     model.ItemKind(i.Kind),
		TMDBID:   i.TMDBID,
		Title:    i.Title,
		Overview: i.Overview,
		Year:     i.Year,
		Genre:    i.Genre,
		Director: i.Director,
		ImageURL: i.ImageURL,
		Created:  i.Created,
	}
}

// GetItem retrieves an item by its natural key.
func (s *SqliteRepo) GetItem(ctx context.Context, kind model.ItemKind, tmdbID int64) (*model.Item, error) {
	var row dbItem
	err := s.dbReadHandle.GetContext(ctx, &row,
		`SELECT `+itemColumns+` FROM items WHERE kind=? AND tmdbid=? LIMIT 1`, string(kind), tmdbID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	item := row.model()
	return &item, nil
}

// GetItemByID retrieves an item by its internal ID.
func (s *SqliteRepo) GetItemByID(ctx context.Context, itemID string) (*model.Item, error) {
	var row dbItem
	err := s.dbReadHandle.GetContext(ctx, &row,
		`SELECT `+itemColumns+` FROM items WHERE id=? LIMIT 1`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	item := row.model()
	return &item, nil
}

// GetItems returns all items of a kind.
func (s *SqliteRepo) GetItems(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	var rows []dbItem
	err := s.dbReadHandle.SelectContext(ctx, &rows,
		`SELECT `+itemColumns+` FROM items WHERE kind=?`, string(kind))
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.model())
	}
	return items, nil
}

// GetItemsByTitle returns all items of a kind with an exact title match.
func (s *SqliteRepo) GetItemsByTitle(ctx context.Context, kind model.ItemKind, title string) ([]model.Item, error) {
	var rows []dbItem
	err := s.dbReadHandle.SelectContext(ctx, &rows,
		`SELECT `+itemColumns+` FROM items WHERE kind=? AND title=?`, string(kind), title)
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.model())
	}
	return items, nil
}

// InsertItem persists a new item. The (kind, tmdbid) uniqueness index is
// authoritative: a conflicting insert returns model.ErrDuplicate so the
// caller can re-fetch the winning row.
func (s *SqliteRepo) InsertItem(ctx context.Context, item *model.Item) error {
	if item.Created.IsZero() {
		item.Created = time.Now().UTC()
	}

	tx, err := s.dbWriteHandle.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `INSERT INTO items (` + itemColumns + `)
		VALUES (:id, :kind, :tmdbid, :title, :overview, :year, :genre, :director, :imageurl, :created)`
	if _, err := tx.NamedExecContext(ctx, query, map[string]any{
		"id":       item.ID,
		"kind":     string(item.Kind),
		"tmdbid":   item.TMDBID,
		"title":    item.Title,
		"overview": item.Overview,
		"year":     item.Year,
		"genre":    item.Genre,
		"director": item.Director,
		"imageurl": item.ImageURL,
		"created":  item.Created,
	}); err != nil {
		if isUniqueConstraintErr(err) {
			return model.ErrDuplicate
		}
		return err
	}
	return tx.Commit()
}
