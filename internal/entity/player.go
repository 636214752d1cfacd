package entity

// Player is a reference to a participant supplied by the identity layer.
// Two players are the same player when their IDs are equal.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (that *Player) Is(id string) bool {
	return that != nil && that.ID == id
}

func (that *Player) Clone() *Player {
	if that == nil {
		return nil
	}

	clone := *that

	return &clone
}
