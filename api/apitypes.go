package api

import (
	"github.com/mediatracker/mediatracker-server/database/model"
)

type messageResponse struct {
	Message string `json:"message"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// listMutationRequest is the body of list add and remove requests. The
// metadata fields are only used on add, when the item is not yet cached.
type listMutationRequest struct {
	Username    string `json:"username"`
	TMDBID      int64  `json:"tmdbId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
	Director    string `json:"director"`
	ImageURL    string `json:"imageUrl"`
}

type itemIngestRequest struct {
	TMDBID      int64  `json:"tmdbId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
	Director    string `json:"director"`
	ImageURL    string `json:"imageUrl"`
}

type itemResponse struct {
	ID          string `json:"id"`
	TMDBID      int64  `json:"tmdbId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
	Director    string `json:"director"`
	ImageURL    string `json:"imageUrl"`
}

type listEntryResponse struct {
	Category string       `json:"category"`
	Item     itemResponse `json:"item"`
}

func makeItemResponse(i model.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		TMDBID:      i.TMDBID,
		Title:       i.Title,
		Description: i.Overview,
		ReleaseYear: i.Year,
		Genre:       i.Genre,
		Director:    i.Director,
		ImageURL:    i.ImageURL,
	}
}
