package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/schema"
)

type errorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "status", status, "error", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// writeError maps domain and validation errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *schema.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Key, Reason: ve.Reason})
	case errors.Is(err, domain.ErrClusterNotFound), errors.Is(err, domain.ErrRecordNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrClusterExists), errors.Is(err, domain.ErrDuplicateName):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
