package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	AreasHandler(w http.ResponseWriter, r *http.Request)
	AreaHandler(w http.ResponseWriter, r *http.Request)
	HistoryHandler(w http.ResponseWriter, r *http.Request)
}

type uGame interface {
	Snapshot(areaID string) (service.AreaSnapshot, error)
	History(areaID string) ([]entity.MatchRecord, error)
	Areas() []string
}

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type areasResponse struct {
	Areas []string `json:"areas"`
}

type historyResponse struct {
	AreaID  string               `json:"area_id"`
	History []entity.MatchRecord `json:"history"`
}

func NewHandlers(logger *slog.Logger, uGame uGame) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) AreasHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, areasResponse{Areas: that.uGame.Areas()})
}

func (that *handlers) AreaHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uGame.Snapshot(r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	areaID := r.PathValue("id")

	history, err := that.uGame.History(areaID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, historyResponse{AreaID: areaID, History: history})
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, apperror.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: apperror.Message(err), Code: apperror.Code(err)})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
