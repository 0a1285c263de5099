// internal/httpserver/server.go
//
// HTTP server wiring for the triangle quiz.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "POST /classify".
//   - Game endpoints (optional auth): /game/*.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (auth.go).
//   - Database persistence of games, guesses and user stats (best effort).
//
// Notes:
//   - Live games sit in the in-memory store; SQLite keeps history only.
//   - The learner never sees a triangle's category until it is solved.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/trianglequiz/internal/config"
	"github.com/robalobadob/trianglequiz/internal/game"
	"github.com/robalobadob/trianglequiz/internal/geometry"
	"github.com/robalobadob/trianglequiz/internal/hints"
	"github.com/robalobadob/trianglequiz/internal/metrics"
	"github.com/robalobadob/trianglequiz/internal/store"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// Server bundles router, in-memory game store, DB handle and generator.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   config.Config
	gen   *triangle.Generator
	sched game.Scheduler
	now   func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithScheduler replaces the real timer scheduler (tests).
func WithScheduler(s game.Scheduler) Option { return func(srv *Server) { srv.sched = s } }

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option { return func(srv *Server) { srv.now = now } }

var validate = validator.New()

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config, gen *triangle.Generator, opts ...Option) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, gen: gen, sched: game.RealScheduler(), now: time.Now}
	for _, o := range opts {
		o(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"trianglequiz","endpoints":["/health","/metrics","POST /classify","POST /game/new","POST /game/guess","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.r.Post("/classify", s.handleClassify)

	// Game endpoints: optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/game/{id}/measure", s.handleMeasure)
		r.Post("/game/next", s.handleNext)
		r.Post("/game/select", s.handleSelect)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/hint", s.handleHint)
		r.Post("/game/reset", s.handleReset)
	})

	// Daily Challenge: optional auth
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decode reads a JSON body into dst, lowercases category fields and runs
// struct validation. It writes the error response itself.
func decode(w http.ResponseWriter, r *http.Request, dst interface{ normalize() }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	dst.normalize()
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid_"+strings.ToLower(verrs[0].Field()))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid")
		return false
	}
	return true
}

func normCategory(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// writeGameError maps game and generation failures onto HTTP responses.
func writeGameError(w http.ResponseWriter, err error) {
	var gerr *triangle.GenerationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrNoTriangle):
		writeError(w, http.StatusConflict, "no_triangle")
	case errors.Is(err, game.ErrRoundOver):
		writeError(w, http.StatusConflict, "round_over")
	case errors.As(err, &gerr):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "generation_failed",
			"category":  gerr.Category,
			"retryable": gerr.Retryable(),
		})
	default:
		log.Error().Err(err).Msg("game request")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// ------------------------------ CLASSIFY -----------------------------------

type classifyReq struct {
	A         *float64 `json:"a" validate:"required,gte=0"`
	B         *float64 `json:"b" validate:"required,gte=0"`
	C         *float64 `json:"c" validate:"required,gte=0"`
	Tolerance *float64 `json:"tolerance" validate:"omitempty,gt=0"`
}

func (*classifyReq) normalize() {}

type classifyRes struct {
	Category  triangle.Category `json:"category"`
	Tolerance float64           `json:"tolerance"`
}

// handleClassify classifies externally measured side lengths.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyReq
	if !decode(w, r, &req) {
		return
	}
	cl := triangle.Classifier{Tolerance: triangle.DefaultTolerance}
	if req.Tolerance != nil {
		cl.Tolerance = *req.Tolerance
	}
	cat := cl.Classify(*req.A, *req.B, *req.C)
	metrics.Classified(cat)
	writeJSON(w, http.StatusOK, classifyRes{Category: cat, Tolerance: cl.Tolerance})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Category string `json:"category" validate:"omitempty,oneof=equilateral isosceles scalene"`
}

func (q *newGameReq) normalize() { q.Category = normCategory(q.Category) }

type gameReq struct {
	GameID string `json:"gameId" validate:"required"`
}

func (*gameReq) normalize() {}

type nextReq struct {
	GameID   string `json:"gameId" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=equilateral isosceles scalene"`
}

func (q *nextReq) normalize() { q.Category = normCategory(q.Category) }

type guessReq struct {
	GameID   string `json:"gameId" validate:"required"`
	Category string `json:"category" validate:"required,oneof=equilateral isosceles scalene"`
}

func (q *guessReq) normalize() { q.Category = normCategory(q.Category) }

type hintReq struct {
	GameID string `json:"gameId" validate:"required"`
	Level  int    `json:"level" validate:"gte=0"`
}

func (*hintReq) normalize() {}

type guessRes struct {
	game.Outcome
	Message string `json:"message"`
}

// handleNewGame creates a game, draws its first triangle and persists an
// owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if !decode(w, r, &req) {
			return
		}
	}

	g := game.New(s.gen, game.Options{
		AdvanceDelay: s.cfg.Game.AdvanceDelay,
		Scheduler:    s.sched,
		OnAdvance:    onAdvance,
	})
	snap, err := g.Next(triangle.Category(req.Category))
	if err != nil {
		metrics.GenerationFailed(triangle.Category(req.Category))
		writeGameError(w, err)
		return
	}
	s.recordGenerated(g)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	now := g.StartedAt.Format(time.RFC3339)
	if me := currentUser(r); me != nil {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, started_at) VALUES (?,?,?)`, g.ID, me.ID, now)
	} else {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, started_at) VALUES (?,?,?)`, g.ID, s.ensureAnonID(w, r), now)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, map[string]any{"gameId": g.ID, "game": snap})
}

// onAdvance runs after an automatic advance to the next triangle.
func onAdvance(snap game.Snapshot, err error) {
	if err != nil {
		metrics.GenerationFailed("")
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("auto-advance")
		return
	}
	log.Debug().Str("gameId", snap.ID).Int("triangle", snap.Triangle.Number).Msg("auto-advance")
}

// recordGenerated counts the game's current triangle in metrics.
func (s *Server) recordGenerated(g *game.Game) {
	if cat, err := g.Hint(); err == nil {
		metrics.Generated(cat)
	}
}

func (s *Server) loadGame(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeGameError(w, err)
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

type measureRes struct {
	Sides          geometry.SideLengths `json:"sides"`
	Classification triangle.Category    `json:"classification"`
}

// handleMeasure returns the current triangle's sides (2 decimals) and how
// the classifier reads them.
func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sides, cat, err := g.Measure()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, measureRes{Sides: sides.Rounded(2), Classification: cat})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	var req nextReq
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	snap, err := g.Next(triangle.Category(req.Category))
	if err != nil {
		metrics.GenerationFailed(triangle.Category(req.Category))
		writeGameError(w, err)
		return
	}
	s.recordGenerated(g)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	snap, err := g.Select()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleGuess evaluates a classification, persists progress and (for
// signed-in users) bumps stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	number := 0
	if snap := g.Snapshot(); snap.Triangle != nil {
		number = snap.Triangle.Number
	}
	out, err := g.Guess(triangle.Category(req.Category))
	if err != nil {
		writeGameError(w, err)
		return
	}
	metrics.Guessed(out.Actual, out.Correct)
	s.persistGuess(r, g.ID, number, out)

	writeJSON(w, http.StatusOK, guessRes{Outcome: out, Message: feedback(out)})
}

// feedback is the learner-facing message for an outcome.
func feedback(out game.Outcome) string {
	if out.Correct {
		return fmt.Sprintf("Correct! This is %s %s triangle.", article(out.Actual), out.Actual)
	}
	return fmt.Sprintf("Incorrect. This is actually %s %s triangle. Try again!", article(out.Actual), out.Actual)
}

func article(c triangle.Category) string {
	if strings.ContainsRune("aeiou", rune(string(c)[0])) {
		return "an"
	}
	return "a"
}

func (s *Server) persistGuess(r *http.Request, gameID string, number int, out game.Outcome) {
	ctx := r.Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin guess tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO guesses (game_id, number, guess, actual, correct, created_at) VALUES (?,?,?,?,?,?)`,
		gameID, number, string(out.Guess), string(out.Actual), out.Correct, now); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("insert guess")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET score=?, attempts=? WHERE id=?`,
		out.Session.Score, out.Session.Attempts, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("update game counters")
	}
	if me := currentUser(r); me != nil {
		if err := s.bumpStats(tx, me.ID, out.Result); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit guess")
	}
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	cat, err := g.Hint()
	if err != nil {
		writeGameError(w, err)
		return
	}
	h, err := hints.For(cat, req.Level)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": h})
}

// handleReset clears the session counters and the current triangle.
// Persisted history is kept.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.loadGame(w, r, req.GameID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Reset())
}
