// Package mockserver is a local stand-in for the hosted trips backend. It
// serves the trips collection over gorilla/mux from a SQLite store and can
// imitate the hosted mock's quirks: {"data": ...} envelopes and create
// responses that echo unresolved template variables.
package mockserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Kayz-mann/trip-planner/internal/mockserver/store"
)

// CollectionPath is where the trips collection is mounted.
const CollectionPath = "/api/trips"

// Options selects the response style.
type Options struct {
	// Envelope wraps successful payloads as {"data": ...}.
	Envelope bool
	// TemplateMode answers POST with unresolved {{$...}} template text and
	// stores nothing.
	TemplateMode bool
	Logger       zerolog.Logger
}

// Server holds the HTTP handlers of the mock backend.
type Server struct {
	store *store.Store
	opts  Options
	log   zerolog.Logger
}

// New returns a Server backed by st.
func New(st *store.Store, opts Options) *Server {
	return &Server{store: st, opts: opts, log: opts.Logger}
}

// Handler returns the routed handler with logging, metrics and panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessMiddleware, s.recoverMiddleware)

	r.HandleFunc(CollectionPath, s.listTrips).Methods(http.MethodGet)
	r.HandleFunc(CollectionPath, s.createTrip).Methods(http.MethodPost)
	r.HandleFunc(CollectionPath+"/{id}", s.getTrip).Methods(http.MethodGet)
	r.HandleFunc(CollectionPath+"/{id}", s.replaceTrip).Methods(http.MethodPut)
	r.HandleFunc(CollectionPath+"/{id}", s.patchTrip).Methods(http.MethodPatch)
	r.HandleFunc(CollectionPath+"/{id}", s.deleteTrip).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
