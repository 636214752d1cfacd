package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	wstransport "github.com/rocketscienceinc/tictactoe-area/internal/transport/websocket"
)

const playHelp = "commands: join | move <row> <col> <X|O> | leave | state | quit"

var (
	errQuit       = errors.New("quit")
	errBadCommand = errors.New(playHelp)
)

type playOptions struct {
	url    string
	areaID string
	id     string
	name   string
}

// session keeps the last area snapshot seen by the terminal client.
type session struct {
	mu       sync.Mutex
	snapshot service.AreaSnapshot
}

func (that *session) update(snapshot service.AreaSnapshot) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshot = snapshot
}

func (that *session) gameID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.snapshot.Game == nil {
		return ""
	}

	return that.snapshot.Game.ID
}

func (that *session) game() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot.Game.Clone()
}

// parseLine turns a terminal line into a websocket message.
func parseLine(line, gameID string) (wstransport.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return wstransport.Message{}, errBadCommand
	}

	var (
		action  string
		payload wstransport.Payload
	)

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return wstransport.Message{}, errQuit
	case "join":
		action = wstransport.ActionGameJoin
	case "leave":
		action = wstransport.ActionGameLeave
		payload.GameID = gameID
	case "move":
		if len(fields) != 4 {
			return wstransport.Message{}, errBadCommand
		}

		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return wstransport.Message{}, fmt.Errorf("bad row %q: %w", fields[1], errBadCommand)
		}

		col, err := strconv.Atoi(fields[2])
		if err != nil {
			return wstransport.Message{}, fmt.Errorf("bad col %q: %w", fields[2], errBadCommand)
		}

		action = wstransport.ActionGameMove
		payload.GameID = gameID
		payload.Move = &entity.Move{Row: row, Col: col, Mark: entity.Mark(strings.ToUpper(fields[3]))}
	default:
		return wstransport.Message{}, errBadCommand
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return wstransport.Message{}, err
	}

	return wstransport.Message{Action: action, Payload: raw}, nil
}

func runPlay(ctx context.Context, opts playOptions, in io.Reader, out io.Writer) error {
	conn, _, err := websocket.Dial(ctx, opts.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", opts.url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	state := &session{}
	var outMu sync.Mutex
	printf := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(ctx, conn, state, func(game *entity.Game) {
			outMu.Lock()
			defer outMu.Unlock()
			printGame(out, game)
		}, printf)
	}()

	if err = send(ctx, conn, wstransport.ActionConnect, wstransport.Payload{
		Player: &entity.Player{ID: opts.id, Name: opts.name},
	}); err != nil {
		return err
	}

	if err = send(ctx, conn, wstransport.ActionAreaEnter, wstransport.Payload{AreaID: opts.areaID}); err != nil {
		return err
	}

	printf("%s\n", playHelp)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err = <-readErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			if strings.TrimSpace(line) == "state" {
				game := state.game()
				outMu.Lock()
				printGame(out, game)
				outMu.Unlock()
				continue
			}

			message, err := parseLine(line, state.gameID())
			switch {
			case errors.Is(err, errQuit):
				return nil
			case err != nil:
				printf("%v\n", err)
				continue
			}

			data, err := json.Marshal(message)
			if err != nil {
				return err
			}

			if err = conn.Write(ctx, websocket.MessageText, data); err != nil {
				return fmt.Errorf("failed to send: %w", err)
			}
		}
	}
}

func send(ctx context.Context, conn *websocket.Conn, action string, payload wstransport.Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(wstransport.Message{Action: action, Payload: raw})
	if err != nil {
		return err
	}

	if err = conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}

	return nil
}

func readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	state *session,
	show func(*entity.Game),
	printf func(string, ...any),
) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		var message wstransport.Message
		if err = json.Unmarshal(data, &message); err != nil {
			continue
		}

		if message.Action == wstransport.ActionAreaChanged {
			var snapshot service.AreaSnapshot
			if err = json.Unmarshal(message.Payload, &snapshot); err == nil {
				state.update(snapshot)
				show(snapshot.Game)
			}
			continue
		}

		var response wstransport.ResponsePayload
		if err = json.Unmarshal(message.Payload, &response); err != nil {
			continue
		}

		switch {
		case response.Error != "":
			printf("%s: %s\n", message.Action, response.Error)
		case response.Player != nil:
			printf("connected as %s (%s)\n", response.Player.Name, response.Player.ID)
		case response.Area != nil:
			state.update(*response.Area)
			printf("entered %s\n", response.Area.AreaID)
			show(response.Area.Game)
		case response.GameID != "":
			printf("%s ok, game %s\n", message.Action, response.GameID)
		}
	}
}
