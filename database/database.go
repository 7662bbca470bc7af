package database

import (
	"context"

	"github.com/mediatracker/mediatracker-server/database/model"
)

type (
	// UserRepository defines user account storage operations.
	UserRepository interface {
		// GetUser retrieves a user by username.
		GetUser(ctx context.Context, username string) (*model.User, error)
		// GetUserByID retrieves a user by their ID.
		GetUserByID(ctx context.Context, userID string) (*model.User, error)
		// InsertUser creates a new user with a hashed password.
		// Returns model.ErrDuplicate if the username is taken.
		InsertUser(ctx context.Context, username, password string) (*model.User, error)
		// ValidateUser checks if the user exists and the password is correct.
		ValidateUser(ctx context.Context, username, password string) (*model.User, error)
	}

	// ItemRepository defines catalog item storage operations.
	ItemRepository interface {
		// GetItem retrieves an item by its natural key.
		GetItem(ctx context.Context, kind model.ItemKind, tmdbID int64) (*model.Item, error)
		// GetItemByID retrieves an item by its internal ID.
		GetItemByID(ctx context.Context, itemID string) (*model.Item, error)
		// GetItems returns all items of a kind.
		GetItems(ctx context.Context, kind model.ItemKind) ([]model.Item, error)
		// GetItemsByTitle returns all items of a kind with an exact title match.
		GetItemsByTitle(ctx context.Context, kind model.ItemKind, title string) ([]model.Item, error)
		// InsertItem persists a new item.
		// Returns model.ErrDuplicate if the (kind, tmdbID) key already exists.
		InsertItem(ctx context.Context, item *model.Item) error
	}

	// ListRepository defines list membership storage operations.
	ListRepository interface {
		// AddListEntry records a membership. Adding an entry that already
		// exists is a no-op.
		AddListEntry(ctx context.Context, userID, itemID, category string) error
		// RemoveListEntry deletes a membership. Removing an entry that does
		// not exist is a no-op.
		RemoveListEntry(ctx context.Context, userID, itemID, category string) error
		// GetListEntries returns all memberships of a user for one kind and
		// category, with item metadata attached.
		GetListEntries(ctx context.Context, userID string, kind model.ItemKind, category string) ([]model.ListEntry, error)
	}

	// SessionRepository defines session token storage operations.
	SessionRepository interface {
		// CreateSession issues a new session token for a user.
		CreateSession(ctx context.Context, userID string) (string, error)
		// GetSession returns session details for a token.
		GetSession(ctx context.Context, token string) (*model.Session, error)
		// DeleteSession revokes a session token.
		DeleteSession(ctx context.Context, token string) error
	}

	// Repository aggregates all storage capabilities. Collaborators receive
	// it via their Options so storage is an explicit dependency.
	Repository interface {
		UserRepository
		ItemRepository
		ListRepository
		SessionRepository

		// StartBackgroundJobs starts periodic sync jobs, such as flushing
		// session usage timestamps to the database.
		StartBackgroundJobs(ctx context.Context)
	}
)
