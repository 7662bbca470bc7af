package model

import (
	"errors"
	"time"
)

var (
	ErrNoConfiguration = errors.New("database filename not set")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrInvalidPassword = errors.New("invalid password")
)

// ItemKind distinguishes the two catalog families. Movies and shows share
// one schema and one engine; the kind is part of an item's natural key.
type ItemKind string

const (
	ItemKindMovie ItemKind = "movie"
	ItemKindShow  ItemKind = "show"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the unique login name of the user.
	Username string
	// Password is the bcrypt hash of the user's password.
	Password string
	// Created is the time the user registered.
	Created time.Time
	// LastLogin is the last time the user logged in.
	LastLogin time.Time
}

// Item is a catalog entry, cached locally the first time any user
// references it by its TMDB id.
type Item struct {
	// ID is the internal identifier for the item.
	ID string
	// Kind is movie or show.
	Kind ItemKind
	// TMDBID identifies the item in the upstream TMDB catalog.
	TMDBID int64
	// Title of the item.
	Title string
	// Overview is the item description.
	Overview string
	// Year is the release year.
	Year int
	// Genre holds one or more comma-separated genres.
	Genre string
	// Director of the item.
	Director string
	// ImageURL points at the item's poster.
	ImageURL string
	// Created is the time the item was first cached locally.
	Created time.Time
}

// ListEntry associates a user with a catalog item in one named list
// category. At most one entry exists per (user, item, category).
type ListEntry struct {
	// UserID is the owning user.
	UserID string
	// Category is the list the entry belongs to.
	Category string
	// Created is the time the entry was added.
	Created time.Time
	// Item is the linked catalog item.
	Item Item
}

// Session is an opaque token mapping to an authenticated user.
type Session struct {
	// Token is the session token string.
	Token string
	// UserID is the ID of the user the session belongs to.
	UserID string
	// Created is the time the session was issued.
	Created time.Time
	// LastUsed is the last time the session was presented.
	LastUsed time.Time
}
