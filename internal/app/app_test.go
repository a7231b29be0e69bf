package app

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/handlers"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var logger = logrus.New()

func TestMain(m *testing.M) {
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newServer(t *testing.T, basePath string) *httptest.Server {
	t.Helper()
	cfg := &config.App{
		BasePath: basePath,
		Limits:   config.GameLimits{MaxWidth: 40, MaxHeight: 40},
	}
	app := New(
		logger,
		cfg,
		repository.NewMemory(),
		config.NewHMACJWT([]byte("test secret"), time.Hour),
		&config.WebSocket{},
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)
	return server
}

type client struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newClient(t *testing.T, server *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: server.URL, client: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, form url.Values, out any) int {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	res, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (c *client) newGame(query string) handlers.GameSessionDTO {
	c.t.Helper()
	var dto handlers.GameSessionDTO
	require.Equal(c.t, http.StatusOK, c.do(http.MethodPost, "/game?"+query, nil, &dto))
	return dto
}

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func TestHealthAndPresets(t *testing.T) {
	c := newClient(t, newServer(t, ""))

	var health map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var presets handlers.PresetsDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/presets?width=9&height=9", nil, &presets))
	assert.Equal(t, mines.Presets, presets.Presets)
	assert.Equal(t, 40, presets.MaxWidth)
	require.NotNil(t, presets.SuggestedMaxMines)
	assert.Equal(t, 14, *presets.SuggestedMaxMines)
	require.NotNil(t, presets.SafeMaxMines)
	assert.Equal(t, 24, *presets.SafeMaxMines)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/presets?width=3&height=3", nil, &presets))
	assert.Equal(t, 0, *presets.SuggestedMaxMines)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/presets?width=41&height=9", nil, nil))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/presets?width=9", nil, nil))
}

func TestBasePath(t *testing.T) {
	c := newClient(t, newServer(t, "/api"))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/health", nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/health", nil, nil))
}

func TestGameHTTP(t *testing.T) {
	c := newClient(t, newServer(t, ""))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game?width=0&height=9&mine_count=1", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game?width=41&height=9&mine_count=1", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game?preset=nightmare", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/game/not-a-uuid", nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+uuid.NewString(), nil, nil))

	game := c.newGame("preset=expert")
	assert.Equal(t, mines.AwaitingFirstMove, game.Status)
	assert.Equal(t, 99, game.MinesRemaining)
	require.Len(t, game.Cells, 480)
	for _, cell := range game.Cells {
		assert.Equal(t, "hidden", cell.Kind)
	}
	path := "/game/" + game.GameSessionID

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, path+"/flag?x=15&y=8", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path+"/reveal?x=4", nil, nil))

	var dto handlers.GameSessionDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, path+"/reveal?x=15&y=8", nil, &dto))
	assert.Equal(t, mines.InProgress, dto.Status)
	assert.NotNil(t, dto.StartedAt)
	for _, cell := range dto.Cells {
		if cell.X == 0 || cell.Y == 0 || cell.X == 29 || cell.Y == 15 {
			assert.True(t, cell.Revealed)
			assert.NotEqual(t, "mine", cell.Kind)
		}
		if !cell.Revealed {
			assert.Equal(t, "hidden", cell.Kind)
		}
	}

	var hidden *handlers.CellDTO
	for i := range dto.Cells {
		if !dto.Cells[i].Revealed {
			hidden = &dto.Cells[i]
			break
		}
	}
	require.NotNil(t, hidden)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost,
		path+"/flag?x="+strconv.Itoa(hidden.X)+"&y="+strconv.Itoa(hidden.Y), nil, &dto))
	assert.Equal(t, 98, dto.MinesRemaining)

	var fetched handlers.GameSessionDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, path, nil, &fetched))
	assert.Equal(t, dto, fetched)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, path+"/restart", nil, &dto))
	assert.Equal(t, game.GameSessionID, dto.GameSessionID)
	assert.Equal(t, mines.AwaitingFirstMove, dto.Status)
	assert.Nil(t, dto.StartedAt)
}

func TestPlayersAndHighscores(t *testing.T) {
	server := newServer(t, "")
	alice := newClient(t, server)
	bob := newClient(t, server)
	anon := newClient(t, server)

	var status handlers.Status
	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/register", credentials("alice", "hunter2"), &status))
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "alice", status.Player.Username)

	assert.Equal(t, http.StatusConflict, bob.do(http.MethodPost, "/register", credentials("alice", "x"), nil))
	assert.Equal(t, http.StatusBadRequest, bob.do(http.MethodPost, "/register", credentials("bob", ""), nil))
	require.Equal(t, http.StatusOK, bob.do(http.MethodPost, "/register", credentials("bob", "pw"), nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/login", credentials("alice", "wrong"), nil))

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/status", nil, &status))
	assert.True(t, status.LoggedIn)
	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/status", nil, &status))
	assert.False(t, status.LoggedIn)

	game := alice.newGame("seed=3x3:0")
	path := "/game/" + game.GameSessionID
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, path, nil, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPost, path+"/reveal?x=1&y=1", nil, nil))

	var dto handlers.GameSessionDTO
	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, path+"/reveal?x=1&y=1", nil, &dto))
	assert.Equal(t, mines.Won, dto.Status)
	assert.NotNil(t, dto.EndedAt)
	assert.NotNil(t, dto.PlaytimeMs)
	assert.Equal(t, http.StatusConflict, alice.do(http.MethodPost, path+"/flag?x=0&y=0", nil, nil))

	var restarted handlers.GameSessionDTO
	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, path+"/restart", nil, &restarted))
	assert.NotEqual(t, game.GameSessionID, restarted.GameSessionID)
	assert.Equal(t, mines.AwaitingFirstMove, restarted.Status)
	assert.Equal(t, http.StatusForbidden, anon.do(http.MethodGet, "/game/"+restarted.GameSessionID, nil, nil))
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, path, nil, &dto))
	assert.Equal(t, mines.Won, dto.Status)

	anonGame := anon.newGame("seed=4x4:0")
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/game/"+anonGame.GameSessionID+"/reveal?x=2&y=2", nil, nil))

	var scores []repository.Highscore
	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/highscores", nil, &scores))
	assert.Len(t, scores, 2)

	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/highscores?params=3x3:0", nil, &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, game.GameSessionID, scores[0].GameSessionID.String())
	require.NotNil(t, scores[0].Username)
	assert.Equal(t, "alice", *scores[0].Username)

	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/highscores?username=bob", nil, &scores))
	assert.Empty(t, scores)
	assert.Equal(t, http.StatusBadRequest, anon.do(http.MethodGet, "/highscores?params=huge", nil, nil))

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/logout", nil, nil))
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/status", nil, &status))
	assert.False(t, status.LoggedIn)

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/login", credentials("alice", "hunter2"), &status))
	assert.True(t, status.LoggedIn)
	assert.Equal(t, http.StatusOK, alice.do(http.MethodGet, path, nil, nil))
}

func TestWebSocket(t *testing.T) {
	server := newServer(t, "")
	c := newClient(t, server)
	game := c.newGame("preset=expert")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/game/" + game.GameSessionID + "/connect"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer res.Body.Close()
	defer conn.Close()

	send := func(text string) map[string]any {
		t.Helper()
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
		var reply map[string]any
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := send("g")
	assert.Equal(t, "awaiting_first_move", reply["status"])

	reply = send("f 15 8")
	assert.Equal(t, mines.ErrAwaitingFirstMove.Error(), reply["error"])
	assert.EqualValues(t, 0, reply["line"])

	reply = send("o 15 8\nf 0 0\ng")
	assert.Equal(t, "in_progress", reply["status"])
	assert.EqualValues(t, 99, reply["mines_remaining"])

	reply = send("g\nzap")
	assert.EqualValues(t, 1, reply["line"])
	assert.Contains(t, reply["error"], "unknown command")

	reply = send("r")
	assert.Equal(t, "awaiting_first_move", reply["status"])

	_, _, err = websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(server.URL, "http")+"/game/"+uuid.NewString()+"/connect", nil,
	)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}

func TestWebSocketRestartAfterWin(t *testing.T) {
	server := newServer(t, "")
	c := newClient(t, server)
	game := c.newGame("seed=3x3:0")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/game/" + game.GameSessionID + "/connect"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer res.Body.Close()
	defer conn.Close()

	var reply handlers.GameSessionDTO
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 1 1")))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, mines.Won, reply.Status)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r\no 1 1")))
	require.NoError(t, conn.ReadJSON(&reply))
	next := reply.GameSessionID
	assert.NotEqual(t, game.GameSessionID, next)
	assert.Equal(t, mines.Won, reply.Status)

	var scores []repository.Highscore
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/highscores?params=3x3:0", nil, &scores))
	assert.Len(t, scores, 2)
}
