package httpserver_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangsolve/go-server/assets"
	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/httpserver"
	"github.com/hangsolve/go-server/internal/store"
)

// newTestServer spins up the full router over a throwaway SQLite file.
// A file-backed DB (not :memory:) keeps the schema visible across the
// connection pool.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	words, err := assets.WordList()
	require.NoError(t, err)
	index, err := dict.New(words, 'E')
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db")+"?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	srv := httpserver.New(store.NewMemoryStore(), db, index, words)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := c.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *http.Response, into any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(into))
}

func TestHealth(t *testing.T) {
	ts, c := newTestServer(t)
	res, err := c.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSolveEndpoint(t *testing.T) {
	ts, c := newTestServer(t)

	res := postJSON(t, c, ts.URL+"/solve", map[string]any{"word": "cattle"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Word         string `json:"word"`
		Status       string `json:"status"`
		Score        int    `json:"score"`
		WrongGuesses int    `json:"wrongGuesses"`
		Steps        []struct {
			Guess    string `json:"guess"`
			Correct  bool   `json:"correct"`
			Revealed string `json:"revealed"`
		} `json:"steps"`
	}
	decode(t, res, &out)

	assert.Equal(t, "CATTLE", out.Word)
	assert.Equal(t, "won", out.Status)
	assert.Equal(t, 9, out.Score)
	assert.Equal(t, 4, out.WrongGuesses)
	require.Len(t, out.Steps, 9)
	assert.Equal(t, "E", out.Steps[0].Guess)
	assert.Equal(t, "-----E", out.Steps[0].Revealed)
	assert.Equal(t, "CATTLE", out.Steps[8].Revealed)

	t.Run("rejects bad secrets", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/solve", map[string]any{"word": "not a word!"})
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestGameFlow(t *testing.T) {
	ts, c := newTestServer(t)

	var created struct {
		GameID     string `json:"gameId"`
		WordLength int    `json:"wordLength"`
		Revealed   string `json:"revealed"`
	}
	res := postJSON(t, c, ts.URL+"/game/new", map[string]any{"word": "dazzle"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, res, &created)
	require.NotEmpty(t, created.GameID)
	assert.Equal(t, 6, created.WordLength)
	assert.Equal(t, "------", created.Revealed)

	var turn struct {
		Guess        string `json:"guess"`
		Correct      bool   `json:"correct"`
		Revealed     string `json:"revealed"`
		Status       string `json:"status"`
		Score        int    `json:"score"`
		WrongGuesses int    `json:"wrongGuesses"`
	}

	res = postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "letter": "e"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, res, &turn)
	assert.True(t, turn.Correct)
	assert.Equal(t, "-----E", turn.Revealed)
	assert.Equal(t, "keep_guessing", turn.Status)

	// Let the solver finish the game; it should need well under 30 turns.
	for i := 0; i < 30 && turn.Status == "keep_guessing"; i++ {
		res = postJSON(t, c, ts.URL+"/game/hint", map[string]any{"gameId": created.GameID})
		require.Equal(t, http.StatusOK, res.StatusCode)
		decode(t, res, &turn)
	}
	assert.Equal(t, "won", turn.Status)
	assert.Equal(t, "DAZZLE", turn.Revealed)
	assert.Equal(t, 6, turn.Score)
	assert.Equal(t, 1, turn.WrongGuesses)

	t.Run("finished games refuse guesses", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": created.GameID, "letter": "a"})
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestGameGuessValidation(t *testing.T) {
	ts, c := newTestServer(t)

	res := postJSON(t, c, ts.URL+"/game/guess", map[string]any{"gameId": "missing", "letter": "a"})
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	var created struct {
		GameID string `json:"gameId"`
	}
	res = postJSON(t, c, ts.URL+"/game/new", map[string]any{"word": "cattle"})
	decode(t, res, &created)

	for _, body := range []map[string]any{
		{"gameId": created.GameID},                                    // neither
		{"gameId": created.GameID, "letter": "a", "word": "cattle"},   // both
		{"gameId": created.GameID, "letter": "ab"},                    // too long
	} {
		res := postJSON(t, c, ts.URL+"/game/guess", body)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts, c := newTestServer(t)

	t.Run("signup sets a usable session", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/auth/signup", map[string]any{
			"username": "player_one", "password": "hunter2secret",
		})
		require.Equal(t, http.StatusOK, res.StatusCode)
		var u struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		}
		decode(t, res, &u)
		assert.Equal(t, "player_one", u.Username)

		res2, err := c.Get(ts.URL + "/auth/me")
		require.NoError(t, err)
		defer res2.Body.Close()
		assert.Equal(t, http.StatusOK, res2.StatusCode)
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/auth/signup", map[string]any{
			"username": "player_one", "password": "hunter2secret",
		})
		res.Body.Close()
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("solves count towards stats", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/solve", map[string]any{"word": "cattle"})
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, err := c.Get(ts.URL + "/stats/me")
		require.NoError(t, err)
		var stats struct {
			GamesPlayed int `json:"gamesPlayed"`
			Wins        int `json:"wins"`
			Streak      int `json:"streak"`
		}
		decode(t, res, &stats)
		assert.Equal(t, 1, stats.GamesPlayed)
		assert.Equal(t, 1, stats.Wins)
		assert.Equal(t, 1, stats.Streak)

		res, err = c.Get(ts.URL + "/solves/mine")
		require.NoError(t, err)
		var rows []struct {
			WordLength int    `json:"wordLength"`
			Status     string `json:"status"`
			Score      int    `json:"score"`
		}
		decode(t, res, &rows)
		require.Len(t, rows, 1)
		assert.Equal(t, 6, rows[0].WordLength)
		assert.Equal(t, "won", rows[0].Status)
		assert.Equal(t, 9, rows[0].Score)
	})

	t.Run("logout revokes access", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/auth/logout", nil)
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		res2, err := c.Get(ts.URL + "/auth/me")
		require.NoError(t, err)
		res2.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/auth/login", map[string]any{
			"username": "player_one", "password": "wrong-password",
		})
		res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("short passwords are rejected", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/auth/signup", map[string]any{
			"username": "player_two", "password": "short",
		})
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestDailyChallenge(t *testing.T) {
	ts, c := newTestServer(t)

	var created struct {
		Date       string `json:"date"`
		WordLength int    `json:"wordLength"`
		Revealed   string `json:"revealed"`
	}
	res := postJSON(t, c, ts.URL+"/daily/new", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, res, &created)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, created.Date)
	assert.Greater(t, created.WordLength, 0)
	assert.Len(t, created.Revealed, created.WordLength)

	var turn struct {
		Revealed string `json:"revealed"`
		Status   string `json:"status"`
	}
	res = postJSON(t, c, ts.URL+"/daily/guess", map[string]any{"letter": "e"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, res, &turn)
	assert.Len(t, turn.Revealed, created.WordLength)

	t.Run("guess requires one letter", func(t *testing.T) {
		res := postJSON(t, c, ts.URL+"/daily/guess", map[string]any{"letter": "ab"})
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("leaderboard responds for any date", func(t *testing.T) {
		res, err := c.Get(ts.URL + "/daily/leaderboard?date=2026-08-26")
		require.NoError(t, err)
		var lb struct {
			Date string  `json:"date"`
			Rows []any   `json:"rows"`
		}
		decode(t, res, &lb)
		assert.Equal(t, "2026-08-26", lb.Date)
		assert.Empty(t, lb.Rows)
	})
}
