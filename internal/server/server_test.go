package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/internal/network"
	"frontline-server/internal/version"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.Runner, *network.Broadcaster) {
	t.Helper()
	hub := network.NewBroadcaster()
	runner := engine.NewRunner(engine.NewSession(battlefield.ScenarioSkirmish, 3), 5*time.Millisecond, hub)
	srv := httptest.NewServer(New(runner, hub, "0").Handler())
	t.Cleanup(srv.Close)
	return srv, runner, hub
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if into != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestHealthAndVersion(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var info version.VersionInfo
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/version", &info))
}

func TestDebugEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var units []domain.Unit
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/debug/units", &units))
	assert.Len(t, units, 6)

	units = nil
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/debug/units?faction=axis", &units))
	require.Len(t, units, 3)
	for _, u := range units {
		assert.Equal(t, domain.FactionAxis, u.Faction)
	}

	var brains []domain.AIData
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/debug/ai", &brains))
	assert.Len(t, brains, 3)

	var objectives []domain.Objective
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/debug/objectives", &objectives))
	assert.Len(t, objectives, 2)

	var res map[string]json.RawMessage
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/debug/resources", &res))
	assert.Contains(t, res, "resources")

	// Отчет появляется только после остановки
	assert.Equal(t, http.StatusConflict, getJSON(t, srv.URL+"/debug/report", nil))
}

func TestWebSocket_FramesAndCommands(t *testing.T) {
	srv, runner, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?client=renderer"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.HasSubscriber("renderer") }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-runner.Done()
	}()
	go runner.Run(ctx)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame api.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "FRAME", frame.Type)
	assert.Equal(t, "Skirmish", frame.Scenario)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "PAUSE"}))
	assert.Eventually(t, func() bool { return runner.Snapshot().State.IsPaused }, 2*time.Second, 5*time.Millisecond)
}

func TestWebSocket_ReconnectKeepsNewClient(t *testing.T) {
	srv, runner, hub := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?client=renderer"

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return hub.HasSubscriber("renderer") }, time.Second, 5*time.Millisecond)

	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()

	// Старое соединение сервер закрывает
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	// Его отписка не должна снять новое подключение
	time.Sleep(50 * time.Millisecond)
	require.True(t, hub.HasSubscriber("renderer"))

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-runner.Done()
	}()
	go runner.Run(ctx)

	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame api.Frame
	require.NoError(t, second.ReadJSON(&frame))
	assert.Equal(t, "FRAME", frame.Type)
}
