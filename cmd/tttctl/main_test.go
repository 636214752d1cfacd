package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	"github.com/rocketscienceinc/tictactoe-area/internal/transport/rest"
	wstransport "github.com/rocketscienceinc/tictactoe-area/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-area/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-area/testing/suite"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (that *syncBuffer) Write(p []byte) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.Write(p)
}

func (that *syncBuffer) String() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.String()
}

type testBackend struct {
	api     string
	ws      string
	useCase usecase.GameUseCase
}

func newTestBackend(t *testing.T) testBackend {
	t.Helper()

	logger := suite.NewLogger()
	hub := wstransport.NewHub(logger)
	registry := service.NewAreaRegistry(logger, []service.Listener{hub})
	players := service.NewPlayerService(repository.NewMemoryPlayerRepository())
	gameUseCase := usecase.NewGameUseCase(logger, players, registry)

	api := httptest.NewServer(rest.NewRouter(rest.NewHandlers(logger, gameUseCase)))
	t.Cleanup(api.Close)

	ws := httptest.NewServer(wstransport.New(logger, gameUseCase, hub))
	t.Cleanup(ws.Close)

	return testBackend{
		api:     api.URL,
		ws:      "ws" + strings.TrimPrefix(ws.URL, "http"),
		useCase: gameUseCase,
	}
}

// finishGame plays a game in the area that alice wins by forfeit.
func finishGame(t *testing.T, gameUseCase usecase.GameUseCase, areaID string) string {
	t.Helper()

	ctx := context.Background()
	_, err := gameUseCase.Connect(ctx, "p1", "alice")
	require.NoError(t, err)
	_, err = gameUseCase.Connect(ctx, "p2", "bob")
	require.NoError(t, err)

	result, err := gameUseCase.Handle(ctx, areaID, "p1", service.Command{Type: service.CommandJoinGame})
	require.NoError(t, err)
	_, err = gameUseCase.Handle(ctx, areaID, "p2", service.Command{Type: service.CommandJoinGame})
	require.NoError(t, err)
	_, err = gameUseCase.Handle(ctx, areaID, "p2", service.Command{Type: service.CommandLeaveGame, GameID: result.GameID})
	require.NoError(t, err)

	return result.GameID
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &syncBuffer{}
	err := newApp(strings.NewReader(""), out).Run(context.Background(), append([]string{"tttctl"}, args...))

	return out.String(), err
}

func TestCommands_REST(t *testing.T) {
	backend := newTestBackend(t)
	gameID := finishGame(t, backend.useCase, "lobby")

	t.Run("areas", func(t *testing.T) {
		out, err := run(t, "--api", backend.api, "areas")

		require.NoError(t, err)
		assert.Equal(t, "lobby\n", out)
	})

	t.Run("history", func(t *testing.T) {
		out, err := run(t, "--api", backend.api, "history", "lobby")

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("1. %s alice=1 bob=0\n", gameID), out)
	})

	t.Run("state", func(t *testing.T) {
		out, err := run(t, "--api", backend.api, "state", "lobby")

		require.NoError(t, err)
		assert.Contains(t, out, "game "+gameID+" OVER")
		assert.Contains(t, out, "X: alice  O: bob")
		assert.Contains(t, out, "winner: alice")
	})

	t.Run("unknown area", func(t *testing.T) {
		_, err := run(t, "--api", backend.api, "history", "missing")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not_found")
	})

	t.Run("missing area argument", func(t *testing.T) {
		_, err := run(t, "--api", backend.api, "state")

		require.ErrorIs(t, err, errAreaRequired)
	})
}

func TestParseLine(t *testing.T) {
	t.Run("move", func(t *testing.T) {
		message, err := parseLine("move 1 2 x", "g1")

		require.NoError(t, err)
		assert.Equal(t, wstransport.ActionGameMove, message.Action)
		assert.JSONEq(t, `{"game_id":"g1","move":{"row":1,"col":2,"mark":"X"}}`, string(message.Payload))
	})

	t.Run("join and leave", func(t *testing.T) {
		message, err := parseLine("join", "")
		require.NoError(t, err)
		assert.Equal(t, wstransport.ActionGameJoin, message.Action)

		message, err = parseLine("  leave ", "g1")
		require.NoError(t, err)
		assert.Equal(t, wstransport.ActionGameLeave, message.Action)
		assert.JSONEq(t, `{"game_id":"g1"}`, string(message.Payload))
	})

	t.Run("quit", func(t *testing.T) {
		_, err := parseLine("quit", "")

		require.ErrorIs(t, err, errQuit)
	})

	t.Run("bad input", func(t *testing.T) {
		for _, line := range []string{"", "dance", "move 1", "move a 1 X", "move 1 b X"} {
			_, err := parseLine(line, "g1")

			require.ErrorIs(t, err, errBadCommand, line)
		}
	})
}

func TestPlay(t *testing.T) {
	backend := newTestBackend(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given: a terminal session in the lobby
	in, input := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runPlay(ctx, playOptions{url: backend.ws, areaID: "lobby", id: "p1", name: "alice"}, in, out)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "entered lobby")
	}, 3*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "connected as alice (p1)")

	// When: the player joins
	_, err := io.WriteString(input, "join\n")
	require.NoError(t, err)

	// Then: the game is created and shown
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "game:join ok")
	}, 3*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), string(entity.StatusWaitingToStart))

	// And: quitting ends the session
	_, err = io.WriteString(input, "quit\n")
	require.NoError(t, err)

	select {
	case err = <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("play did not stop")
	}
}
