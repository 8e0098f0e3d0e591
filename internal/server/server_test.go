package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/engine"
	"camp-engine/internal/version"
	"camp-engine/pkg/api"
	"camp-engine/pkg/dungeon"
	"camp-engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.GameService) {
	t.Helper()
	factory := dungeon.NewFactory()
	m, err := dungeon.ParseMap(strings.NewReader("//width 5\n//height 1\n@...>\n"))
	require.NoError(t, err)

	cfg := engine.NewConfig()
	cfg.Seed = 3
	sim, err := engine.Start(cfg, &dungeon.MapLevels{Maps: []*dungeon.MapFile{m}, Factory: factory}, factory)
	require.NoError(t, err)

	svc := engine.NewService(sim, nil)
	ts := httptest.NewServer(New(svc, "").Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func get(t *testing.T, url string) []byte {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestServer_HealthAndVersion(t *testing.T) {
	ts, _ := newTestServer(t)

	assert.Equal(t, "ok", string(get(t, ts.URL+"/health")))

	var info version.VersionInfo
	require.NoError(t, json.Unmarshal(get(t, ts.URL+"/version"), &info))
	assert.Equal(t, version.Info().BuildID, info.BuildID)
}

func TestServer_DebugViews(t *testing.T) {
	ts, _ := newTestServer(t)

	var fields map[string][][]int
	require.NoError(t, json.Unmarshal(get(t, ts.URL+"/debug/fields"), &fields))
	require.Contains(t, fields, engine.FieldPC)
	assert.Len(t, fields[engine.FieldPC], 1)
	assert.Len(t, fields[engine.FieldPC][0], 5)

	var state api.ServerMessage
	require.NoError(t, json.Unmarshal(get(t, ts.URL+"/debug/state?view=client"), &state))
	assert.Equal(t, api.MessageInit, state.Type)
	require.NotNil(t, state.Grid)
	assert.Equal(t, 5, state.Grid.Width)

	snapshot := get(t, ts.URL+"/debug/state")
	assert.Contains(t, string(snapshot), `"name":"PC"`)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func receive(t *testing.T, conn *websocket.Conn) api.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg api.ServerMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestServer_PlayOverWebSocket(t *testing.T) {
	ts, svc := newTestServer(t)
	conn := dial(t, ts)

	hello := receive(t, conn)
	assert.Equal(t, api.MessageInit, hello.Type)
	assert.NotEmpty(t, hello.Session)
	assert.Equal(t, 0, hello.Turn)

	send(t, conn, `{"action":"walk","payload":{"dx":1,"dy":0}}`)
	turn := receive(t, conn)
	assert.Equal(t, api.MessageTurn, turn.Type)
	assert.Equal(t, 1, turn.Turn)
	assert.True(t, turn.Acted)
	require.NotEmpty(t, turn.Events)
	assert.Equal(t, "queue_exhausted", turn.Events[len(turn.Events)-1].Type)

	// Отказ до начала хода уходит только автору, ход не тратится
	send(t, conn, `{"action":"fly"}`)
	refused := receive(t, conn)
	assert.Equal(t, api.MessageError, refused.Type)
	assert.Equal(t, hello.Session, refused.Session)
	assert.NotEmpty(t, refused.Error)

	send(t, conn, `not json`)
	broken := receive(t, conn)
	assert.Equal(t, api.MessageError, broken.Type)

	svc.Do(func(sim *engine.Simulation) {
		assert.Equal(t, 1, sim.Turn)
	})
}

func TestServer_TurnsReachEverySession(t *testing.T) {
	ts, _ := newTestServer(t)
	player := dial(t, ts)
	watcher := dial(t, ts)

	a := receive(t, player)
	b := receive(t, watcher)
	assert.NotEqual(t, a.Session, b.Session)

	send(t, player, `{"action":"wait"}`)
	assert.Equal(t, 1, receive(t, player).Turn)
	assert.Equal(t, 1, receive(t, watcher).Turn)
}
