// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's challenge (creates or reuses session)
//   - POST /daily/guess       → classify today's triangle
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same triangle on a given UTC date (seeded from date + salt).
// Each player gets dailyMaxAttempts guesses and one result per day (enforced
// by the DB unique key + the in-memory session).

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/trianglequiz/internal/daily"
	"github.com/robalobadob/trianglequiz/internal/game"
	"github.com/robalobadob/trianglequiz/internal/metrics"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

// dailyMaxAttempts is how many guesses a player gets on the daily triangle.
const dailyMaxAttempts = 2

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions and their fields
}

// dailySession holds transient state for an in-progress daily challenge.
type dailySession struct {
	GameID   string
	Date     string
	Triangle triangle.Triangle
	Start    time.Time
	Session  game.Session
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID   string      `json:"gameId,omitempty"`
	Date     string      `json:"date"`
	Played   bool        `json:"played"`
	Triangle *game.Shape `json:"triangle,omitempty"`
	Attempts int         `json:"attempts"`
	Max      int         `json:"maxAttempts"`
}

func shapeOf(t triangle.Triangle) *game.Shape {
	return &game.Shape{Number: 1, Vertices: t.Vertices, Sides: t.Sides()}
}

// handleNew creates or reuses today's session.
//   - A DB row for today → Played=true, no triangle.
//   - Otherwise create/reuse an in-memory session and return the triangle.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	} else if played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true, Max: dailyMaxAttempts})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		writeJSON(w, http.StatusOK, newRes{
			GameID: sess.GameID, Date: date, Played: sess.Finished,
			Triangle: shapeOf(sess.Triangle), Attempts: sess.Session.Attempts, Max: dailyMaxAttempts,
		})
		return
	}

	tri, err := daily.TriangleFor(now, d.srv.cfg.DailySalt, d.srv.cfg.Game.Triangle)
	if err != nil {
		writeGameError(w, err)
		return
	}
	sess := &dailySession{GameID: uuid.NewString(), Date: date, Triangle: tri, Start: now}
	d.sessions[key] = sess
	writeJSON(w, http.StatusOK, newRes{GameID: sess.GameID, Date: date, Triangle: shapeOf(tri), Max: dailyMaxAttempts})
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID   string `json:"gameId" validate:"required"`
	Category string `json:"category" validate:"required,oneof=equilateral isosceles scalene"`
}

func (q *dailyGuessReq) normalize() { q.Category = normCategory(q.Category) }

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Correct  bool              `json:"correct"`
	State    string            `json:"state"` // in_progress | won | lost | locked
	Attempts int               `json:"attempts"`
	Actual   triangle.Category `json:"actual,omitempty"` // revealed once finished
}

// handleGuess evaluates a guess for today's session and persists the
// result once the player wins or runs out of attempts.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)

	var p dailyGuessReq
	if !decode(w, r, &p) {
		return
	}
	now := d.srv.now()
	date := daily.DateKey(now)

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	if sess.Finished {
		res := dailyGuessRes{State: "locked", Attempts: sess.Session.Attempts, Actual: sess.Triangle.Category}
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}

	actual := sess.Triangle.Category
	out := sess.Session.Evaluate(triangle.Category(p.Category), actual)
	res := dailyGuessRes{Correct: out.Correct, State: "in_progress", Attempts: sess.Session.Attempts}
	switch {
	case out.Correct:
		res.State = "won"
	case sess.Session.Attempts >= dailyMaxAttempts:
		res.State = "lost"
	}
	finished := res.State != "in_progress"
	if finished {
		sess.Finished = true
		res.Actual = actual
	}
	elapsed := int(now.Sub(sess.Start).Milliseconds())
	d.mu.Unlock()

	metrics.Guessed(actual, out.Correct)
	if finished {
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, Category: actual,
			Attempts: res.Attempts, Correct: out.Correct, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
