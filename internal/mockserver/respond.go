package mockserver

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes data as JSON with statusCode. In envelope mode the payload
// is wrapped as {"data": ...}.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	if s.opts.Envelope {
		data = map[string]any{"data": data}
	}
	s.writeRaw(w, statusCode, data)
}

func (s *Server) writeRaw(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes a standardized error response. Errors are never enveloped.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeRaw(w, statusCode, errorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}
