package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	"github.com/rocketscienceinc/tictactoe-area/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-area/testing/suite"
)

func newTestServer(t *testing.T) (*httptest.Server, usecase.GameUseCase) {
	t.Helper()

	logger := suite.NewLogger()
	players := service.NewPlayerService(repository.NewMemoryPlayerRepository())
	gameUseCase := usecase.NewGameUseCase(logger, players, service.NewAreaRegistry(logger, nil))

	ts := httptest.NewServer(NewRouter(NewHandlers(logger, gameUseCase)))
	t.Cleanup(ts.Close)

	return ts, gameUseCase
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(url) //nolint: noctx // test request
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestHandlers_Ping(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts.URL+"/ping")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(body))
}

func TestHandlers_Areas(t *testing.T) {
	ctx := context.Background()
	ts, gameUseCase := newTestServer(t)

	// Given: an area with a forfeited game
	alice, err := gameUseCase.Connect(ctx, "p1", "alice")
	require.NoError(t, err)
	bob, err := gameUseCase.Connect(ctx, "p2", "bob")
	require.NoError(t, err)
	result, err := gameUseCase.Handle(ctx, "lobby", alice.ID, service.Command{Type: service.CommandJoinGame})
	require.NoError(t, err)
	_, err = gameUseCase.Handle(ctx, "lobby", bob.ID, service.Command{Type: service.CommandJoinGame})
	require.NoError(t, err)
	_, err = gameUseCase.Handle(ctx, "lobby", bob.ID, service.Command{Type: service.CommandLeaveGame, GameID: result.GameID})
	require.NoError(t, err)

	t.Run("Lists areas", func(t *testing.T) {
		status, body := get(t, ts.URL+"/areas")

		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"areas":["lobby"]}`, string(body))
	})

	t.Run("Returns the history", func(t *testing.T) {
		status, body := get(t, ts.URL+"/areas/lobby/history")

		require.Equal(t, http.StatusOK, status)

		var response historyResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "lobby", response.AreaID)
		assert.Equal(t, []entity.MatchRecord{{
			GameID: result.GameID,
			Scores: map[string]int{"alice": 1, "bob": 0},
		}}, response.History)
	})

	t.Run("Returns the snapshot", func(t *testing.T) {
		status, body := get(t, ts.URL+"/areas/lobby")

		require.Equal(t, http.StatusOK, status)

		var snapshot service.AreaSnapshot
		require.NoError(t, json.Unmarshal(body, &snapshot))
		require.NotNil(t, snapshot.Game)
		assert.Equal(t, entity.StatusOver, snapshot.Game.Status)
		assert.Equal(t, "p1", snapshot.Game.Winner.ID)
	})

	t.Run("Unknown area is not found", func(t *testing.T) {
		for _, path := range []string{"/areas/missing", "/areas/missing/history"} {
			status, body := get(t, ts.URL+path)

			assert.Equal(t, http.StatusNotFound, status)
			assert.JSONEq(t, `{"error":"not found","code":"not_found"}`, string(body))
		}
	})
}
