package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	"github.com/rocketscienceinc/tictactoe-area/testing/suite"
)

var errRedisDown = errors.New("redis down")

type mockPlayerService struct {
	mock.Mock
}

func (that *mockPlayerService) GetOrCreate(ctx context.Context, id, name string) (*entity.Player, error) {
	args := that.Called(ctx, id, name)
	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockPlayerService) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func newUseCase(t *testing.T) GameUseCase {
	t.Helper()

	logger := suite.NewLogger()
	players := service.NewPlayerService(repository.NewMemoryPlayerRepository())

	return NewGameUseCase(logger, players, service.NewAreaRegistry(logger, nil))
}

func TestGameUseCase_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("Registers a new player", func(t *testing.T) {
		useCase := newUseCase(t)

		player, err := useCase.Connect(ctx, "", "alice")

		require.NoError(t, err)
		assert.NotEmpty(t, player.ID)
		assert.Equal(t, "alice", player.Name)
	})

	t.Run("Returns error if the player service fails", func(t *testing.T) {
		// Given: a player service that cannot reach storage
		players := &mockPlayerService{}
		players.On("GetOrCreate", mock.Anything, "p1", "alice").Return(nil, errRedisDown).Once()
		useCase := NewGameUseCase(suite.NewLogger(), players, service.NewAreaRegistry(suite.NewLogger(), nil))

		// When: connecting
		player, err := useCase.Connect(ctx, "p1", "alice")

		// Then: the storage error is wrapped
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, player)
		players.AssertExpectations(t)
	})
}

func TestGameUseCase_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a game through the area", func(t *testing.T) {
		// Given: two connected players
		useCase := newUseCase(t)
		alice, err := useCase.Connect(ctx, "p1", "alice")
		require.NoError(t, err)
		bob, err := useCase.Connect(ctx, "p2", "bob")
		require.NoError(t, err)

		// When: both join and the first one forfeits
		result, err := useCase.Handle(ctx, "lobby", alice.ID, service.Command{Type: service.CommandJoinGame})
		require.NoError(t, err)
		_, err = useCase.Handle(ctx, "lobby", bob.ID, service.Command{Type: service.CommandJoinGame})
		require.NoError(t, err)
		_, err = useCase.Handle(ctx, "lobby", alice.ID, service.Command{Type: service.CommandLeaveGame, GameID: result.GameID})
		require.NoError(t, err)

		// Then: the history has the forfeit
		history, err := useCase.History("lobby")
		require.NoError(t, err)
		assert.Equal(t, []entity.MatchRecord{{
			GameID: result.GameID,
			Scores: map[string]int{"alice": 0, "bob": 1},
		}}, history)
		assert.Equal(t, []string{"lobby"}, useCase.Areas())
	})

	t.Run("Unknown player is rejected", func(t *testing.T) {
		useCase := newUseCase(t)

		_, err := useCase.Handle(ctx, "lobby", "ghost", service.Command{Type: service.CommandJoinGame})

		require.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Empty(t, useCase.Areas())
	})

	t.Run("Area errors keep their sentinel", func(t *testing.T) {
		// Given: a connected player
		useCase := newUseCase(t)
		alice, err := useCase.Connect(ctx, "p1", "alice")
		require.NoError(t, err)

		// When: leaving without a game
		_, err = useCase.Handle(ctx, "lobby", alice.ID, service.Command{Type: service.CommandLeaveGame, GameID: "g1"})

		// Then: the caller can still match the area error
		require.ErrorIs(t, err, apperror.ErrGameNotInProgress)
		assert.Equal(t, "game_not_in_progress", apperror.Code(err))
	})

	t.Run("Empty area ID is rejected", func(t *testing.T) {
		useCase := newUseCase(t)
		alice, err := useCase.Connect(ctx, "p1", "alice")
		require.NoError(t, err)

		_, err = useCase.Handle(ctx, "", alice.ID, service.Command{Type: service.CommandJoinGame})

		require.ErrorIs(t, err, apperror.ErrInvalidCommand)
	})
}

func TestGameUseCase_Enter(t *testing.T) {
	useCase := newUseCase(t)

	snapshot, err := useCase.Enter(context.Background(), "lobby")

	require.NoError(t, err)
	assert.Equal(t, "lobby", snapshot.AreaID)
	assert.Nil(t, snapshot.Game)
	assert.Empty(t, snapshot.History)
}

func TestGameUseCase_Snapshot(t *testing.T) {
	t.Run("Unknown area", func(t *testing.T) {
		useCase := newUseCase(t)

		_, err := useCase.Snapshot("missing")
		require.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = useCase.History("missing")
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Known area", func(t *testing.T) {
		// Given: an area with a waiting game
		ctx := context.Background()
		useCase := newUseCase(t)
		alice, err := useCase.Connect(ctx, "p1", "alice")
		require.NoError(t, err)
		result, err := useCase.Handle(ctx, "lobby", alice.ID, service.Command{Type: service.CommandJoinGame})
		require.NoError(t, err)

		// When: taking a snapshot
		snapshot, err := useCase.Snapshot("lobby")

		// Then: the game is visible
		require.NoError(t, err)
		require.NotNil(t, snapshot.Game)
		assert.Equal(t, result.GameID, snapshot.Game.ID)
		assert.Equal(t, entity.StatusWaitingToStart, snapshot.Game.Status)
	})
}
