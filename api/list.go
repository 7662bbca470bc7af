package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/tracker"
)

// POST /api/user/movielist/{category}/add
// POST /api/user/showlist/{category}/add
//
// listAddHandler adds an item to one of the user's lists, caching the item
// locally on first reference.
func (a *Server) listAddHandler(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]

		var request listMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apierror(w, "Invalid request", http.StatusBadRequest)
			return
		}

		message, err := a.tracker.AddToList(r.Context(), kind, request.Username, request.TMDBID, category,
			tracker.ItemMeta{
				Title:    request.Title,
				Overview: request.Description,
				Year:     request.ReleaseYear,
				Genre:    request.Genre,
				Director: request.Director,
				ImageURL: request.ImageURL,
			})
		if err != nil {
			a.writeListError(w, kind, err)
			return
		}
		serveJSON(messageResponse{Message: message}, w)
	}
}

// POST /api/user/movielist/{category}/remove
// POST /api/user/showlist/{category}/remove
//
// listRemoveHandler removes an item from one of the user's lists.
func (a *Server) listRemoveHandler(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]

		var request listMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apierror(w, "Invalid request", http.StatusBadRequest)
			return
		}

		message, err := a.tracker.RemoveFromList(r.Context(), kind, request.Username, request.TMDBID, category)
		if err != nil {
			a.writeListError(w, kind, err)
			return
		}
		serveJSON(messageResponse{Message: message}, w)
	}
}

// GET /api/user/movielist/{category}?username=
// GET /api/user/showlist/{category}?username=
//
// listGetHandler returns all of the user's memberships for one category.
func (a *Server) listGetHandler(kind model.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]
		username := r.URL.Query().Get("username")

		entries, err := a.tracker.GetList(r.Context(), kind, username, category)
		if err != nil {
			a.writeListError(w, kind, err)
			return
		}

		response := make([]listEntryResponse, 0, len(entries))
		for _, entry := range entries {
			response = append(response, listEntryResponse{
				Category: entry.Category,
				Item:     makeItemResponse(entry.Item),
			})
		}
		serveJSON(response, w)
	}
}

// writeListError maps tracker errors onto API responses.
func (a *Server) writeListError(w http.ResponseWriter, kind model.ItemKind, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnknownCategory):
		apierror(w, "Unknown list category", http.StatusBadRequest)
	case errors.Is(err, model.ErrNotFound):
		apierror(w, notFoundMessage(kind), http.StatusNotFound)
	default:
		apierror(w, "Storage unavailable", http.StatusInternalServerError)
	}
}

func notFoundMessage(kind model.ItemKind) string {
	if kind == model.ItemKindShow {
		return "The User or Show was not found"
	}
	return "The User or Movie was not found"
}
