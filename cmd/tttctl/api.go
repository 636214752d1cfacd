package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

var errAreaRequired = errors.New("area id is required")

type apiClient struct {
	baseURL string
	http    *http.Client
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (that *apiClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := that.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Code)
		}

		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func runAreas(ctx context.Context, api *apiClient, out io.Writer) error {
	var response struct {
		Areas []string `json:"areas"`
	}

	if err := api.get(ctx, "/areas", &response); err != nil {
		return err
	}

	for _, id := range response.Areas {
		fmt.Fprintln(out, id)
	}

	return nil
}

func runHistory(ctx context.Context, api *apiClient, areaID string, out io.Writer) error {
	if areaID == "" {
		return errAreaRequired
	}

	var response struct {
		History []entity.MatchRecord `json:"history"`
	}

	if err := api.get(ctx, "/areas/"+url.PathEscape(areaID)+"/history", &response); err != nil {
		return err
	}

	if len(response.History) == 0 {
		fmt.Fprintln(out, "no finished games")
		return nil
	}

	for i, record := range response.History {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, record.GameID, formatScores(record.Scores))
	}

	return nil
}

func runState(ctx context.Context, api *apiClient, areaID string, out io.Writer) error {
	if areaID == "" {
		return errAreaRequired
	}

	var snapshot service.AreaSnapshot
	if err := api.get(ctx, "/areas/"+url.PathEscape(areaID), &snapshot); err != nil {
		return err
	}

	printGame(out, snapshot.Game)

	return nil
}

func formatScores(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, scores[name]))
	}

	return strings.Join(parts, " ")
}

func printGame(out io.Writer, game *entity.Game) {
	if game == nil {
		fmt.Fprintln(out, "no game")
		return
	}

	fmt.Fprintf(out, "game %s %s\n", game.ID, game.Status)
	fmt.Fprintf(out, "X: %s  O: %s\n", playerName(game.X), playerName(game.O))

	board := game.Board()
	for _, row := range board {
		cells := make([]string, len(row))
		for i, mark := range row {
			cells[i] = string(mark)
			if mark == entity.MarkEmpty {
				cells[i] = "."
			}
		}
		fmt.Fprintln(out, strings.Join(cells, " "))
	}

	switch {
	case game.IsTie():
		fmt.Fprintln(out, "tie")
	case game.IsOver():
		fmt.Fprintf(out, "winner: %s\n", playerName(game.Winner))
	}
}

func playerName(player *entity.Player) string {
	if player == nil {
		return "-"
	}

	return player.Name
}
