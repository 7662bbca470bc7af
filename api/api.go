package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mediatracker/mediatracker-server/database"
	"github.com/mediatracker/mediatracker-server/database/model"
	"github.com/mediatracker/mediatracker-server/tracker"
)

type Options struct {
	Repo    database.Repository
	Tracker *tracker.Tracker
}

// Server translates HTTP requests into tracker and repository calls.
type Server struct {
	repo    database.Repository
	tracker *tracker.Tracker
}

func New(o *Options) *Server {
	return &Server{
		repo:    o.Repo,
		tracker: o.Tracker,
	}
}

func (a *Server) RegisterHandlers(r *mux.Router) {
	compress := func(handler http.HandlerFunc) http.Handler {
		return handlers.CompressHandler(handler)
	}

	r.Handle("/api/user/register", compress(a.registerHandler)).Methods("POST")
	r.Handle("/api/user/login", compress(a.loginHandler)).Methods("POST")
	r.Handle("/api/user/logout", compress(a.logoutHandler)).Methods("POST")
	r.Handle("/api/user/me", compress(a.meHandler)).Methods("GET")

	// Movie and show lists are the same engine mounted twice.
	lists := []struct {
		prefix string
		kind   model.ItemKind
	}{
		{"/api/user/movielist", model.ItemKindMovie},
		{"/api/user/showlist", model.ItemKindShow},
	}
	for _, l := range lists {
		s := r.PathPrefix(l.prefix).Subrouter()
		s.Handle("/{category}/add", compress(a.listAddHandler(l.kind))).Methods("POST")
		s.Handle("/{category}/remove", compress(a.listRemoveHandler(l.kind))).Methods("POST")
		s.Handle("/{category}", compress(a.listGetHandler(l.kind))).Methods("GET")
	}

	catalogs := []struct {
		prefix string
		kind   model.ItemKind
	}{
		{"/api/movies", model.ItemKindMovie},
		{"/api/shows", model.ItemKindShow},
	}
	for _, c := range catalogs {
		r.Handle(c.prefix, compress(a.catalogGetHandler(c.kind))).Methods("GET")
		r.Handle(c.prefix, compress(a.catalogIngestHandler(c.kind))).Methods("POST")
	}
}
