package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/database/sqlite"
)

func newTestTracker(t *testing.T) (*Tracker, *sqlite.SqliteRepo) {
	t.Helper()

	repo, err := sqlite.New(&sqlite.ConfigFile{
		Filename: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	return New(&Options{Repo: repo}), repo
}

func fightClub() ItemMeta {
	return ItemMeta{
		Title:    "Fight Club",
		Overview: "An insomniac office worker crosses paths with a soap maker.",
		Year:     1999,
		Genre:    "Drama",
		Director: "David Fincher",
		ImageURL: "https://image.tmdb.org/t/p/w500/fight-club.jpg",
	}
}

func TestAddToListCreatesItem(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	msg, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched, fightClub())
	if err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if msg != "Has been added to watched" {
		t.Errorf("message = %q, want %q", msg, "Has been added to watched")
	}

	// The item was created in the catalog as a side effect.
	item, err := repo.GetItem(ctx, model.ItemKindMovie, 550)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Title != "Fight Club" || item.Year != 1999 {
		t.Errorf("catalog item = %+v, want Fight Club (1999)", item)
	}

	entries, err := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryWatched)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(entries) != 1 || entries[0].Item.TMDBID != 550 {
		t.Errorf("list = %+v, want one entry for tmdbid 550", entries)
	}
}

func TestAddToListIdempotent(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	for i := 0; i < 3; i++ {
		msg, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatchlist, fightClub())
		if err != nil {
			t.Fatalf("AddToList #%d: %v", i+1, err)
		}
		if msg != "Has been added to watchlist" {
			t.Errorf("message #%d = %q", i+1, msg)
		}
	}

	entries, err := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryWatchlist)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("list has %d entries after repeated adds, want 1", len(entries))
	}
}

func TestAddToListFirstWriteWins(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if _, err := repo.InsertUser(ctx, "bob", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched, fightClub()); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	// A later add with different metadata must not rewrite the catalog.
	other := ItemMeta{Title: "Totally Different", Year: 2024}
	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "bob", 550, CategoryWatchlist, other); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	item, err := repo.GetItem(ctx, model.ItemKindMovie, 550)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Title != "Fight Club" || item.Year != 1999 {
		t.Errorf("catalog item = %+v, first write should win", item)
	}
}

func TestAddToListUnknownUser(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.AddToList(ctx, model.ItemKindMovie, "nobody", 550, CategoryWatched, fightClub())
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("AddToList err = %v, want ErrNotFound", err)
	}

	// The failed add must not have created the item.
	if _, err := repo.GetItem(ctx, model.ItemKindMovie, 550); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetItem err = %v, want ErrNotFound", err)
	}
}

func TestUnknownCategory(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, "bestof", fightClub()); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("AddToList err = %v, want ErrUnknownCategory", err)
	}
	if _, err := tracker.RemoveFromList(ctx, model.ItemKindMovie, "alice", 550, "bestof"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("RemoveFromList err = %v, want ErrUnknownCategory", err)
	}
	if _, err := tracker.GetList(ctx, model.ItemKindMovie, "alice", "bestof"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("GetList err = %v, want ErrUnknownCategory", err)
	}
}

func TestRemoveFromList(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched, fightClub()); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	msg, err := tracker.RemoveFromList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched)
	if err != nil {
		t.Fatalf("RemoveFromList: %v", err)
	}
	if msg != "Has been removed from watched" {
		t.Errorf("message = %q, want %q", msg, "Has been removed from watched")
	}

	entries, err := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryWatched)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("list has %d entries after remove, want 0", len(entries))
	}

	// The catalog item itself stays.
	if _, err := repo.GetItem(ctx, model.ItemKindMovie, 550); err != nil {
		t.Errorf("GetItem after remove: %v", err)
	}
}

func TestRemoveFromListUnknownItem(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if _, err := tracker.RemoveFromList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("RemoveFromList err = %v, want ErrNotFound", err)
	}
}

func TestGetListUnknownUser(t *testing.T) {
	tracker, _ := newTestTracker(t)

	entries, err := tracker.GetList(context.Background(), model.ItemKindMovie, "nobody", CategoryWatched)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("GetList returned %d entries for unknown user, want 0", len(entries))
	}
}

func TestCategoriesIndependent(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatchlist, fightClub()); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryFavourites, fightClub()); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	// Removing from one category leaves the other intact.
	if _, err := tracker.RemoveFromList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatchlist); err != nil {
		t.Fatalf("RemoveFromList: %v", err)
	}

	watchlist, _ := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryWatchlist)
	favourites, _ := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryFavourites)
	if len(watchlist) != 0 {
		t.Errorf("watchlist has %d entries, want 0", len(watchlist))
	}
	if len(favourites) != 1 {
		t.Errorf("favourites has %d entries, want 1", len(favourites))
	}
}

func TestKindsIndependent(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()

	if _, err := repo.InsertUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if _, err := tracker.AddToList(ctx, model.ItemKindMovie, "alice", 550, CategoryWatched, fightClub()); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	show := ItemMeta{Title: "Some Show", Year: 2008}
	if _, err := tracker.AddToList(ctx, model.ItemKindShow, "alice", 550, CategoryWatched, show); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	movies, _ := tracker.GetList(ctx, model.ItemKindMovie, "alice", CategoryWatched)
	shows, _ := tracker.GetList(ctx, model.ItemKindShow, "alice", CategoryWatched)
	if len(movies) != 1 || movies[0].Item.Title != "Fight Club" {
		t.Errorf("movie list = %+v, want Fight Club only", movies)
	}
	if len(shows) != 1 || shows[0].Item.Title != "Some Show" {
		t.Errorf("show list = %+v, want Some Show only", shows)
	}
}

func TestIngest(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	item, err := tracker.Ingest(ctx, model.ItemKindMovie, 550, fightClub())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if item.Title != "Fight Club" {
		t.Errorf("ingested item = %+v", item)
	}

	// Repeated ingest returns the existing item unchanged.
	again, err := tracker.Ingest(ctx, model.ItemKindMovie, 550, ItemMeta{Title: "Other"})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if again.ID != item.ID || again.Title != "Fight Club" {
		t.Errorf("second Ingest = %+v, want the original item", again)
	}
}

func TestValidCategory(t *testing.T) {
	for _, category := range []string{CategoryWatchlist, CategoryFavourites, CategoryWatched} {
		if !ValidCategory(category) {
			t.Errorf("ValidCategory(%q) = false, want true", category)
		}
	}
	for _, category := range []string{"", "Watchlist", "bestof"} {
		if ValidCategory(category) {
			t.Errorf("ValidCategory(%q) = true, want false", category)
		}
	}
}
