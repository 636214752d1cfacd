package entity

const (
	ScoreWin  = 1
	ScoreLoss = 0
)

// MatchRecord is the outcome of one concluded game, keyed by player name.
type MatchRecord struct {
	GameID string         `json:"game_id"`
	Scores map[string]int `json:"scores"`
}

// NewMatchRecord scores a finished game: 1 for the winner, 0 for the other
// player, 0/0 when there is no winner.
func NewMatchRecord(game *Game) MatchRecord {
	scores := make(map[string]int, 2)
	for _, player := range []*Player{game.X, game.O} {
		if player == nil {
			continue
		}

		if game.Winner.Is(player.ID) {
			scores[player.Name] = ScoreWin
		} else {
			scores[player.Name] = ScoreLoss
		}
	}

	return MatchRecord{
		GameID: game.ID,
		Scores: scores,
	}
}

func (that MatchRecord) clone() MatchRecord {
	scores := make(map[string]int, len(that.Scores))
	for name, score := range that.Scores {
		scores[name] = score
	}

	return MatchRecord{GameID: that.GameID, Scores: scores}
}

// MatchHistory is an append-only log of match records.
// It is not safe for concurrent use; the owning area serializes access.
type MatchHistory struct {
	records []MatchRecord
}

func NewMatchHistory() *MatchHistory {
	return &MatchHistory{records: []MatchRecord{}}
}

func (that *MatchHistory) Append(record MatchRecord) {
	that.records = append(that.records, record.clone())
}

func (that *MatchHistory) Len() int {
	return len(that.records)
}

// Records returns a copy of the log in insertion order.
func (that *MatchHistory) Records() []MatchRecord {
	out := make([]MatchRecord, len(that.records))
	for i, record := range that.records {
		out[i] = record.clone()
	}

	return out
}
