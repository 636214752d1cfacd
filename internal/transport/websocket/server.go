package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

const (
	ActionError = "error"

	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	Connect(ctx context.Context, playerID, name string) (*entity.Player, error)
	Enter(ctx context.Context, areaID string) (service.AreaSnapshot, error)
	Handle(ctx context.Context, areaID, playerID string, cmd service.Command) (service.CommandResult, error)
	Snapshot(areaID string) (service.AreaSnapshot, error)
}

type handlerFunc func(ctx context.Context, c *client, payload *Payload) (ResponsePayload, error)

type Server struct {
	logger *slog.Logger
	uGame  uGame
	hub    *Hub

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, hub *Hub) *Server {
	server := &Server{
		logger: logger.With("component", "websocket_server"),
		uGame:  uGame,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionConnect] = server.handleConnect
	server.handlers[ActionAreaEnter] = server.handleAreaEnter
	server.handlers[ActionGameJoin] = server.handleGameJoin
	server.handlers[ActionGameMove] = server.handleGameMove
	server.handlers[ActionGameLeave] = server.handleGameLeave

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP upgrades the connection and serves it until the peer goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)
	go c.writePump()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	ctx := req.Context()
	that.handleMessages(ctx, c)
	that.disconnect(ctx, c)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			that.reply(c, ActionError, errorPayload(fmt.Errorf("%w: malformed message", apperror.ErrInvalidCommand)))
			continue
		}

		that.dispatch(ctx, c, &message)
	}
}

func (that *Server) dispatch(ctx context.Context, c *client, message *Message) {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.reply(c, message.Action, errorPayload(fmt.Errorf("%w: unknown action %q", apperror.ErrInvalidCommand, message.Action)))
		return
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			that.reply(c, message.Action, errorPayload(fmt.Errorf("%w: malformed payload", apperror.ErrInvalidCommand)))
			return
		}
	}

	response, err := handler(ctx, c, &payload)
	if err != nil {
		log.Debug("action failed", "error", err)
		response = errorPayload(err)
	}

	that.reply(c, message.Action, response)
}

func (that *Server) reply(c *client, action string, payload ResponsePayload) {
	data, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode response", "action", action, "error", err)
		return
	}

	if !c.enqueue(data) {
		that.logger.Warn("response dropped", "action", action)
	}
}

// disconnect removes the client from its area and takes its player out of
// the active game.
func (that *Server) disconnect(ctx context.Context, c *client) {
	defer c.close()

	playerID, areaID := c.session()
	if areaID == "" {
		return
	}

	that.hub.leave(c, areaID)
	that.vacate(ctx, c, areaID, playerID)
}

// vacate sends the player's seat in the area's active game through LeaveGame
// once c no longer holds the area. Another connection of the same player
// still in the area keeps the seat.
func (that *Server) vacate(ctx context.Context, c *client, areaID, playerID string) {
	log := that.logger.With("method", "vacate", "playerID", playerID, "areaID", areaID)

	if playerID == "" || that.hub.seated(areaID, playerID, c) {
		return
	}

	snapshot, err := that.uGame.Snapshot(areaID)
	if err != nil || snapshot.Game == nil || snapshot.Game.IsOver() || !snapshot.Game.HasPlayer(playerID) {
		return
	}

	_, err = that.uGame.Handle(context.WithoutCancel(ctx), areaID, playerID, service.Command{
		Type:   service.CommandLeaveGame,
		GameID: snapshot.Game.ID,
	})
	if err != nil {
		log.Debug("leave failed", "error", err)
		return
	}

	log.Info("player left the game")
}

func errorPayload(err error) ResponsePayload {
	return ResponsePayload{
		Error: apperror.Message(err),
		Code:  apperror.Code(err),
	}
}
