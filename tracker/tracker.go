// Package tracker implements the per-user list membership engine and the
// catalog get-or-create policy backing it.
package tracker

import (
	"context"
	"errors"
	"strconv"

	"github.com/mediatracker/mediatracker-server/database"
	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/idhash"
)

// The fixed set of list categories a membership can belong to.
const (
	CategoryWatchlist  = "watchlist"
	CategoryFavourites = "favourites"
	CategoryWatched    = "watched"
)

// ErrUnknownCategory is returned for categories outside the fixed set.
var ErrUnknownCategory = errors.New("unknown list category")

// ValidCategory reports whether category is a member of the fixed set.
func ValidCategory(category string) bool {
	switch category {
	case CategoryWatchlist, CategoryFavourites, CategoryWatched:
		return true
	}
	return false
}

type Options struct {
	Repo database.Repository
}

// Tracker manages associations between users, catalog items and list
// categories.
type Tracker struct {
	repo database.Repository
}

func New(o *Options) *Tracker {
	return &Tracker{
		repo: o.Repo,
	}
}

// ItemMeta carries catalog metadata supplied by the caller, used only when
// the referenced item is not yet known locally.
type ItemMeta struct {
	Title    string
	Overview string
	Year     int
	Genre    string
	Director string
	ImageURL string
}

// AddToList adds an item to one of the user's lists. The item is created
// from meta if this is the first time anyone references it. Adding an item
// that is already on the list is a no-op: the entry count never exceeds one
// per (user, item, category).
func (t *Tracker) AddToList(ctx context.Context, kind model.ItemKind, username string, tmdbID int64, category string, meta ItemMeta) (string, error) {
	if !ValidCategory(category) {
		return "", ErrUnknownCategory
	}

	user, err := t.repo.GetUser(ctx, username)
	if err != nil {
		return "", err
	}
	item, err := t.resolveItem(ctx, kind, tmdbID, meta)
	if err != nil {
		return "", err
	}

	if err := t.repo.AddListEntry(ctx, user.ID, item.ID, category); err != nil &&
		!errors.Is(err, model.ErrDuplicate) {
		return "", err
	}
	return "Has been added to " + category, nil
}

// RemoveFromList removes an item from one of the user's lists. Unlike add,
// remove never creates the item: both user and item must already exist.
// Removing an entry that is not on the list is a successful no-op.
func (t *Tracker) RemoveFromList(ctx context.Context, kind model.ItemKind, username string, tmdbID int64, category string) (string, error) {
	if !ValidCategory(category) {
		return "", ErrUnknownCategory
	}

	user, err := t.repo.GetUser(ctx, username)
	if err != nil {
		return "", err
	}
	item, err := t.repo.GetItem(ctx, kind, tmdbID)
	if err != nil {
		return "", err
	}

	if err := t.repo.RemoveListEntry(ctx, user.ID, item.ID, category); err != nil {
		return "", err
	}
	return "Has been removed from " + category, nil
}

// GetList returns the user's memberships for one kind and category. An
// unknown username yields an empty list, not an error.
func (t *Tracker) GetList(ctx context.Context, kind model.ItemKind, username, category string) ([]model.ListEntry, error) {
	if !ValidCategory(category) {
		return nil, ErrUnknownCategory
	}

	user, err := t.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return []model.ListEntry{}, nil
		}
		return nil, err
	}
	return t.repo.GetListEntries(ctx, user.ID, kind, category)
}

// Ingest adds an item directly to the catalog, applying the same
// get-or-create policy as list adds.
func (t *Tracker) Ingest(ctx context.Context, kind model.ItemKind, tmdbID int64, meta ItemMeta) (*model.Item, error) {
	return t.resolveItem(ctx, kind, tmdbID, meta)
}

// resolveItem looks up an item by its natural key and creates it from meta
// on a miss. Metadata of an existing item is never updated: first write
// wins. A create that loses a concurrent insert race re-fetches the row
// written by the winner.
func (t *Tracker) resolveItem(ctx context.Context, kind model.ItemKind, tmdbID int64, meta ItemMeta) (*model.Item, error) {
	item, err := t.repo.GetItem(ctx, kind, tmdbID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	newItem := &model.Item{
		ID:       idhash.Hash(string(kind) + "/" + strconv.FormatInt(tmdbID, 10)),
		Kind:     kind,
		TMDBID:   tmdbID,
		Title:    meta.Title,
		Overview: meta.Overview,
		Year:     meta.Year,
		Genre:    meta.Genre,
		Director: meta.Director,
		ImageURL: meta.ImageURL,
	}
	if err := t.repo.InsertItem(ctx, newItem); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// another request created the item first
			return t.repo.GetItem(ctx, kind, tmdbID)
		}
		return nil, err
	}
	return newItem, nil
}
