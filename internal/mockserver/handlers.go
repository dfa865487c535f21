package mockserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Kayz-mann/trip-planner/client"
	"github.com/Kayz-mann/trip-planner/internal/mockserver/store"
)

// templateEcho mimics a hosted mock whose response template was never
// rendered: variables appear verbatim instead of values.
const templateEcho = `{
  "id": "{{$randomUUID}}",
  "name": "{{body 'name'}}",
  "destination": "{{body 'destination'}}",
  "created_at": "{{$isoTimestamp}}",
  "updated_at": "{{$isoTimestamp}}"
}`

// listTrips GET /api/trips
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trips)
}

// createTrip POST /api/trips
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r, true)
	if !ok {
		return
	}
	if s.opts.TemplateMode {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(templateEcho))
		return
	}
	trip, err := s.store.Create(r.Context(), req)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, trip)
}

// getTrip GET /api/trips/{id}
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trip)
}

// replaceTrip PUT /api/trips/{id}
func (s *Server) replaceTrip(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r, true)
	if !ok {
		return
	}
	trip, err := s.store.Replace(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trip)
}

// patchTrip PATCH /api/trips/{id}
func (s *Server) patchTrip(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r, false)
	if !ok {
		return
	}
	trip, err := s.store.Patch(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trip)
}

// deleteTrip DELETE /api/trips/{id}
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// health GET /healthz
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeRaw(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest parses the JSON body. full requires name and destination.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, full bool) (client.TripRequest, bool) {
	var req client.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}
	if full {
		var missing []string
		if strings.TrimSpace(req.Name) == "" {
			missing = append(missing, "name")
		}
		if strings.TrimSpace(req.Destination) == "" {
			missing = append(missing, "destination")
		}
		if len(missing) > 0 {
			s.writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
			return req, false
		}
	}
	return req, true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.internalError(w, err)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Stack().Err(err).Msg("store failure")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}
