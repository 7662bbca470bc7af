package sqlite

import (
	"log"

	"github.com/jmoiron/sqlx"
)

func dbInitSchema(d *sqlx.DB) error {
	schema := []string{
		// This is needed to improve concurrent reads and writes.
		`PRAGMA journal_mode = WAL;`,
		// Without this foreign key constraints won't be enforced and cascade deletes won't happen.
		`PRAGMA foreign_keys = ON;`,

		`CREATE TABLE IF NOT EXISTS users (
id TEXT NOT NULL PRIMARY KEY,
username TEXT NOT NULL,
password TEXT NOT NULL,
created DATETIME,
lastlogin DATETIME);`,

		`CREATE UNIQUE INDEX IF NOT EXISTS users_name_idx ON users (username);`,

		`CREATE TABLE IF NOT EXISTS items (
id TEXT NOT NULL PRIMARY KEY,
kind TEXT NOT NULL,
tmdbid INTEGER NOT NULL,
title TEXT NOT NULL,
overview TEXT,
year INTEGER,
genre TEXT,
director TEXT,
imageurl TEXT,
created DATETIME);`,

		// (kind, tmdbid) is the natural key of an item: a concurrent upsert
		// losing the insert race gets a constraint error and re-fetches.
		`CREATE UNIQUE INDEX IF NOT EXISTS items_kind_tmdbid_idx ON items (kind, tmdbid);`,

		`CREATE INDEX IF NOT EXISTS items_title_idx ON items (title);`,

		`CREATE TABLE IF NOT EXISTS list_entries (
userid TEXT NOT NULL,
itemid TEXT NOT NULL,
category TEXT NOT NULL,
created DATETIME,
PRIMARY KEY (userid, itemid, category),
FOREIGN KEY (userid) REFERENCES users(id) ON DELETE CASCADE,
FOREIGN KEY (itemid) REFERENCES items(id) ON DELETE CASCADE);`,

		`CREATE TABLE IF NOT EXISTS sessions (
token TEXT NOT NULL PRIMARY KEY,
userid TEXT NOT NULL,
created DATETIME,
lastused DATETIME);`,
	}

	for _, query := range schema {
		if _, err := d.Exec(query); err != nil {
			log.Printf("dbInitSchema error: %s\n", err)
			return err
		}
	}
	return nil
}
