// internal/httpserver/server.go
//
// HTTP server wiring for the password service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Password endpoints (no auth): /password/decode, /password/encode,
//     /password/generate, /password/count.
//   - Auth endpoints: /auth/* (see auth.go).
//   - Spellbook endpoints (require auth): /spellbook (see routes_spellbook.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Codec errors map to 400 (malformed input) or 422 (well-formed but rejected).

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dq1password/internal/catalog"
	"github.com/robalobadob/dq1password/internal/config"
	"github.com/robalobadob/dq1password/internal/password"
	"github.com/robalobadob/dq1password/internal/spellbook"
	"github.com/robalobadob/dq1password/internal/store"
)

const defaultGenerateLimit = 10

// Server bundles router, generate cache, and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	cache store.Store
	db    *sql.DB
	book  *spellbook.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, cache store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, cache: cache, db: db, book: spellbook.NewStore(db)}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"dq1password","endpoints":["/health","POST /password/decode","POST /password/encode","POST /password/generate","POST /password/count","/auth/*","/spellbook"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/password", func(r chi.Router) {
		r.Post("/decode", s.handleDecode)
		r.Post("/encode", s.handleEncode)
		r.Post("/generate", s.handleGenerate)
		r.Post("/count", s.handleCount)
	})

	s.mountAuthRoutes()
	s.mountSpellbook(s.r.With(s.requireAuth()))

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	s.r.Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(catalog.Stats())
	})

	return s
}

// Router exposes the internal router (useful for tests and for http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured CLIENT_ORIGIN.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("requestId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	body := map[string]string{"error": code}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// writeCodecError maps password error kinds onto HTTP statuses.
func writeCodecError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, password.ErrInvalidPattern):
		writeError(w, http.StatusBadRequest, "invalid_pattern", err)
	case errors.Is(err, password.ErrInvalidLength):
		writeError(w, http.StatusBadRequest, "invalid_length", err)
	case errors.Is(err, password.ErrUnknownSymbol):
		writeError(w, http.StatusBadRequest, "unknown_symbol", err)
	case errors.Is(err, password.ErrChecksumMismatch):
		writeError(w, http.StatusUnprocessableEntity, "checksum_mismatch", err)
	case errors.Is(err, password.ErrFieldOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, "field_out_of_range", err)
	case errors.Is(err, password.ErrFieldOverflow):
		writeError(w, http.StatusUnprocessableEntity, "field_overflow", err)
	default:
		log.Error().Err(err).Msg("unexpected codec error")
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}

// ------------------------------ PASSWORD -----------------------------------

type decodeReq struct {
	Password string `json:"password"`
}
type decodeRes struct {
	Password string          `json:"password"` // normalised
	State    password.State  `json:"state"`
	Summary  catalog.Summary `json:"summary"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	clean, err := password.NormalizePassword(req.Password)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	st, err := password.Decode(clean)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(decodeRes{Password: clean, State: st, Summary: catalog.Describe(st)})
}

type encodeReq struct {
	State password.State `json:"state"`
}
type encodeRes struct {
	Password string         `json:"password"`
	State    password.State `json:"state"` // with the name in stored form
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	text, err := password.Encode(req.State)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	st, _ := req.State.Normalize()
	_ = json.NewEncoder(w).Encode(encodeRes{Password: text, State: st})
}

type generateReq struct {
	Pattern string `json:"pattern"`
	Limit   *int   `json:"limit"` // default 10, capped at GENERATE_MAX_LIMIT
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	limit := defaultGenerateLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit > s.cfg.GenerateMaxLimit {
		limit = s.cfg.GenerateMaxLimit
	}

	p, err := password.ParsePattern(req.Pattern)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	if limit <= 0 {
		writeCodecError(w, fmt.Errorf("%w: limit must be positive, got %d", password.ErrInvalidPattern, limit))
		return
	}

	key := store.Key(p.String(), limit)
	if res, err := s.cache.Get(r.Context(), key); err == nil {
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	var res store.Result
	res.Passwords, res.Total = p.Search(limit)
	if res.Passwords == nil {
		res.Passwords = []string{}
	}
	if err := s.cache.Save(r.Context(), key, res); err != nil {
		log.Warn().Err(err).Str("pattern", p.String()).Msg("cache generate result")
	}
	log.Debug().Str("pattern", p.String()).Int("wildcards", p.Wildcards()).
		Uint64("total", res.Total).Int("returned", len(res.Passwords)).Msg("generated")
	_ = json.NewEncoder(w).Encode(res)
}

type countReq struct {
	Pattern string `json:"pattern"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var req countReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	n, err := password.Count(req.Pattern)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]uint64{"total": n})
}
