// internal/httpserver/routes_spellbook.go
//
// Saved passwords for signed-in users:
//   - GET    /spellbook       → newest entries first (?limit=, default 50, max 200)
//   - POST   /spellbook       → {password, label} save after a successful decode
//   - DELETE /spellbook/{id}  → remove one entry

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dq1password/internal/password"
	"github.com/robalobadob/dq1password/internal/spellbook"
)

func (s *Server) mountSpellbook(r chi.Router) {
	r.Get("/spellbook", s.handleSpellbookList)
	r.Post("/spellbook", s.handleSpellbookAdd)
	r.Delete("/spellbook/{id}", s.handleSpellbookDelete)
}

func (s *Server) handleSpellbookList(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, 200)
	}
	entries, err := s.book.List(r.Context(), me.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("list spellbook")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(entries)
}

type spellbookAddReq struct {
	Password string `json:"password"`
	Label    string `json:"label"`
}

func (s *Server) handleSpellbookAdd(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var req spellbookAddReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	e, err := s.book.Add(r.Context(), me.ID, req.Label, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, e)
	case isCodecError(err):
		writeCodecError(w, err)
	case errors.Is(err, spellbook.ErrLabelTooLong):
		writeError(w, http.StatusBadRequest, "bad_label", err)
	default:
		log.Error().Err(err).Str("user", me.ID).Msg("add spellbook entry")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
	}
}

func (s *Server) handleSpellbookDelete(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	err := s.book.Delete(r.Context(), me.ID, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, spellbook.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	default:
		log.Error().Err(err).Str("user", me.ID).Msg("delete spellbook entry")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
	}
}

func isCodecError(err error) bool {
	for _, kind := range []error{
		password.ErrInvalidLength, password.ErrUnknownSymbol, password.ErrChecksumMismatch,
		password.ErrFieldOutOfRange, password.ErrFieldOverflow, password.ErrInvalidPattern,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
