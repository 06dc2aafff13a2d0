package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
)

type errorBody struct {
	Detail string        `json:"detail"`
	Code   cgerrors.Code `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := cgerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody{Detail: cgerrors.UserMessage(err), Code: cgerrors.GetCode(err)})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return decodeError(err)
	}
	return nil
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, cgerrors.New(cgerrors.ErrCodeInvalidInput, "%s must be an integer", key)
	}
	return n, nil
}

// queryBool parses a boolean query parameter, returning def when absent.
func queryBool(r *http.Request, key string, def bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, cgerrors.New(cgerrors.ErrCodeInvalidInput, "%s must be a boolean", key)
	}
	return b, nil
}

func decodeError(err error) error {
	return cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "invalid JSON body")
}
