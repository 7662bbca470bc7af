package api

import (
	"encoding/json"
	"net/http"

	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/tracker"
)

// GET /api/movies
// GET /api/shows
//
// catalogGetHandler returns all catalog items of a kind. The optional
// title query parameter restricts the result to an exact title match.
func (a *Server) catalogGetHandler(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []model.Item
		var err error

		if title := r.URL.Query().Get("title"); title != "" {
			items, err = a.repo.GetItemsByTitle(r.Context(), kind, title)
		} else {
			items, err = a.repo.GetItems(r.Context(), kind)
		}
		if err != nil {
			apierror(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}

		response := make([]itemResponse, 0, len(items))
		for _, item := range items {
			response = append(response, makeItemResponse(item))
		}
		serveJSON(response, w)
	}
}

// POST /api/movies
// POST /api/shows
//
// catalogIngestHandler adds one item directly to the catalog. An item that
// already exists is returned unchanged: first write wins.
func (a *Server) catalogIngestHandler(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request itemIngestRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apierror(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if request.TMDBID <= 0 {
			apierror(w, "tmdbId required", http.StatusBadRequest)
			return
		}

		item, err := a.tracker.Ingest(r.Context(), kind, request.TMDBID,
			tracker.ItemMeta{
				Title:    request.Title,
				Overview: request.Description,
				Year:     request.ReleaseYear,
				Genre:    request.Genre,
				Director: request.Director,
				ImageURL: request.ImageURL,
			})
		if err != nil {
			apierror(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		serveJSON(makeItemResponse(*item), w)
	}
}
