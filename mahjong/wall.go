package mahjong

import "math/rand"

// Wall is the live tile stock: 144 tiles (four copies of each of the 34
// numbered/honor kinds, plus one copy of each of the 8 flower tiles),
// shuffled once at construction and drawn from the tail thereafter.
type Wall struct {
	tiles []Tile // tiles[len-1] is next to draw
}

// NewWall builds and shuffles a fresh 144-tile wall. Two walls built with
// the same seed draw tiles in the same order.
func NewWall(seed int64) *Wall {
	tiles := make([]Tile, 0, 144)
	for id := 0; id < 34; id++ {
		t, err := TileFromID(id)
		if err != nil {
			panic(err) // unreachable: id is always in range
		}
		for copies := 0; copies < 4; copies++ {
			tiles = append(tiles, t)
		}
	}
	for v := 1; v <= 8; v++ {
		t, err := NewFlowerTile(v)
		if err != nil {
			panic(err) // unreachable: v is always in range
		}
		tiles = append(tiles, t)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return &Wall{tiles: tiles}
}

// Len reports how many tiles remain in the wall.
func (w *Wall) Len() int {
	return len(w.tiles)
}

// Draw pops the next tile from the wall's tail. ok is false once the wall
// is empty.
func (w *Wall) Draw() (tile Tile, ok bool) {
	if len(w.tiles) == 0 {
		return Tile{}, false
	}
	last := len(w.tiles) - 1
	tile = w.tiles[last]
	w.tiles = w.tiles[:last]
	return tile, true
}
