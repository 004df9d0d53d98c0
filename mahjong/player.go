package mahjong

// PlayerState is one seat's full visible and concealed state.
type PlayerState struct {
	ID       int
	SeatWind WindValue
	Hand     []Tile
	Melds    []Meld
	Discards []Tile
}

// NewPlayerState builds an empty seat for id at seatWind.
func NewPlayerState(id int, seatWind WindValue) *PlayerState {
	return &PlayerState{ID: id, SeatWind: seatWind}
}

// AddTile appends a drawn or dealt tile to the concealed hand.
func (p *PlayerState) AddTile(t Tile) {
	p.Hand = append(p.Hand, t)
}

// RemoveTile removes the first occurrence of t from the concealed hand.
// ok is false if t is not present.
func (p *PlayerState) RemoveTile(t Tile) (ok bool) {
	for i, h := range p.Hand {
		if h == t {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTiles removes each of tiles from the concealed hand, restoring
// everything already removed if any tile is missing partway through.
func (p *PlayerState) RemoveTiles(tiles []Tile) (ok bool) {
	removed := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if !p.RemoveTile(t) {
			for _, r := range removed {
				p.AddTile(r)
			}
			return false
		}
		removed = append(removed, t)
	}
	return true
}

// HasTile reports whether the concealed hand contains at least one t.
func (p *PlayerState) HasTile(t Tile) bool {
	for _, h := range p.Hand {
		if h == t {
			return true
		}
	}
	return false
}

// CountTile reports how many copies of t sit in the concealed hand.
func (p *PlayerState) CountTile(t Tile) int {
	n := 0
	for _, h := range p.Hand {
		if h == t {
			n++
		}
	}
	return n
}

// Discard removes t from the hand and records it in the discard pile.
func (p *PlayerState) Discard(t Tile) (ok bool) {
	if !p.RemoveTile(t) {
		return false
	}
	p.Discards = append(p.Discards, t)
	return true
}

// AddMeld records a newly formed meld (chow/pung/kong/flower singleton).
func (p *PlayerState) AddMeld(m Meld) {
	p.Melds = append(p.Melds, m)
}

// IsConcealed reports whether the hand has no exposed (claimed) sets.
// Concealed kongs and flower singletons do not break concealment.
func (p *PlayerState) IsConcealed() bool {
	for _, m := range p.Melds {
		if m.IsExposed() {
			return false
		}
	}
	return true
}

// NonFlowerMeldCount returns how many of the four required sets already
// sit in Melds (chow/pung/kong — flower singletons don't count).
func (p *PlayerState) NonFlowerMeldCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.IsSet() {
			n++
		}
	}
	return n
}

// SortedHand returns the concealed hand in Tile.Less order, the "sorted
// view" handed to PlayerPort implementations.
func (p *PlayerState) SortedHand() []Tile {
	return SortTiles(p.Hand)
}
