// internal/httpserver/routes_daily.go
//
// Daily Challenge: everyone solves the same secret word on a given UTC date.
// The word is chosen deterministically from the loaded list via an HMAC of
// the date, so every instance of the service agrees without coordination.
// One scored attempt per user per day; results feed a leaderboard.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hangsolve/go-server/internal/daily"
	"github.com/hangsolve/go-server/internal/game"
)

// dailySessions holds in-flight daily games keyed by "<playerID>|<date>".
// Daily games are short-lived; completed entries are replaced next day.
type dailySessions struct {
	mu    sync.Mutex
	games map[string]*game.Game
}

func (d *dailySessions) get(key string) *game.Game {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.games[key]
}

func (d *dailySessions) put(key string, g *game.Game) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.games[key] = g
}

// mountDaily registers /daily/* on the given (optional-auth) router.
func (s *Server) mountDaily(r chi.Router) {
	sessions := &dailySessions{games: make(map[string]*game.Game)}
	results := daily.NewStore(s.db)
	salt := getEnv("DAILY_SALT", "dev_daily_salt")

	r.Post("/daily/new", func(w http.ResponseWriter, req *http.Request) {
		date := daily.DateKey(time.Now())
		player := s.playerID(w, req)
		key := player + "|" + date

		me, _ := req.Context().Value(ctxUserKey{}).(*authUser)
		if me != nil {
			played, err := results.AlreadyPlayed(req.Context(), me.ID, date)
			if err != nil {
				log.Warn().Err(err).Msg("daily already-played lookup")
			}
			if played {
				http.Error(w, `{"error":"already played today"}`, http.StatusConflict)
				return
			}
		}

		idx := daily.WordIndex(salt, date, len(s.words))
		g, err := game.New(s.words[idx], 0)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		sessions.put(key, g)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"date":       date,
			"wordLength": g.SecretLength(),
			"revealed":   g.Revealed(),
		})
	})

	r.Post("/daily/guess", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Letter string `json:"letter"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || len(strings.TrimSpace(body.Letter)) != 1 {
			http.Error(w, `{"error":"need a single letter"}`, http.StatusBadRequest)
			return
		}
		date := daily.DateKey(time.Now())
		key := s.playerID(w, req) + "|" + date
		g := sessions.get(key)
		if g == nil {
			http.Error(w, `{"error":"no active daily game"}`, http.StatusNotFound)
			return
		}
		if g.Status() != game.StatusKeepGuessing {
			http.Error(w, `{"error":"game finished"}`, http.StatusBadRequest)
			return
		}

		correct := g.GuessLetter(strings.TrimSpace(body.Letter)[0])
		st := g.Status()

		if st != game.StatusKeepGuessing {
			if me, _ := req.Context().Value(ctxUserKey{}).(*authUser); me != nil {
				res := daily.Result{
					UserID:       me.ID,
					Date:         date,
					WordIndex:    daily.WordIndex(salt, date, len(s.words)),
					WrongGuesses: g.WrongGuesses(),
					Score:        g.Score(),
				}
				if err := results.InsertResult(req.Context(), res); err != nil {
					log.Warn().Err(err).Str("user", me.ID).Msg("insert daily result")
				}
			}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"correct":      correct,
			"revealed":     g.Revealed(),
			"status":       st,
			"score":        g.Score(),
			"wrongGuesses": g.WrongGuesses(),
		})
	})

	r.Get("/daily/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		date := req.URL.Query().Get("date")
		if date == "" {
			date = daily.DateKey(time.Now())
		}
		rows, err := results.Leaderboard(req.Context(), date, 20)
		if err != nil {
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
	})
}

// playerID identifies the caller for daily-session keying: the user ID when
// authenticated, the anonymous cookie otherwise.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}
