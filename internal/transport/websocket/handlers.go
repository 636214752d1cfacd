package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

var (
	errNotConnected = fmt.Errorf("%w: connect first", apperror.ErrInvalidCommand)
	errNotInArea    = fmt.Errorf("%w: enter an area first", apperror.ErrInvalidCommand)
	errConnected    = fmt.Errorf("%w: already connected", apperror.ErrInvalidCommand)
)

func (that *Server) handleConnect(ctx context.Context, c *client, payload *Payload) (ResponsePayload, error) {
	if current, _ := c.session(); current != "" {
		return ResponsePayload{}, errConnected
	}

	var playerID, name string
	if payload.Player != nil {
		playerID, name = payload.Player.ID, payload.Player.Name
	}

	player, err := that.uGame.Connect(ctx, playerID, name)
	if err != nil {
		return ResponsePayload{}, err
	}

	c.setPlayer(player.ID)

	return ResponsePayload{Player: player}, nil
}

func (that *Server) handleAreaEnter(ctx context.Context, c *client, payload *Payload) (ResponsePayload, error) {
	snapshot, err := that.uGame.Enter(ctx, payload.AreaID)
	if err != nil {
		return ResponsePayload{}, err
	}

	previous := c.setArea(snapshot.AreaID)
	that.hub.join(c, snapshot.AreaID)

	if previous != "" && previous != snapshot.AreaID {
		that.hub.leave(c, previous)

		playerID, _ := c.session()
		that.vacate(ctx, c, previous, playerID)
	}

	return ResponsePayload{Area: &snapshot}, nil
}

func (that *Server) handleGameJoin(ctx context.Context, c *client, _ *Payload) (ResponsePayload, error) {
	return that.handleCommand(ctx, c, service.Command{Type: service.CommandJoinGame})
}

func (that *Server) handleGameMove(ctx context.Context, c *client, payload *Payload) (ResponsePayload, error) {
	return that.handleCommand(ctx, c, service.Command{
		Type:   service.CommandGameMove,
		GameID: payload.GameID,
		Move:   payload.Move,
	})
}

func (that *Server) handleGameLeave(ctx context.Context, c *client, payload *Payload) (ResponsePayload, error) {
	return that.handleCommand(ctx, c, service.Command{
		Type:   service.CommandLeaveGame,
		GameID: payload.GameID,
	})
}

func (that *Server) handleCommand(ctx context.Context, c *client, cmd service.Command) (ResponsePayload, error) {
	playerID, areaID := c.session()

	switch {
	case playerID == "":
		return ResponsePayload{}, errNotConnected
	case areaID == "":
		return ResponsePayload{}, errNotInArea
	}

	result, err := that.uGame.Handle(ctx, areaID, playerID, cmd)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{GameID: result.GameID}, nil
}
