package mahjong

import "fmt"

// This file encodes the external, policy-facing identifier spaces: the 34
// non-flower tile kinds, the 21 chows, and the 125-slot action space built
// from them. The tile ids also index HandAnalyzer's count array and drive
// NewWall's construction; the chow and action encodings exist so an
// external decision agent (see player_port.go) can be driven by a flat
// action id instead of a typed Tile/Meld.

// windIDOrder is the external tile-ID ordering for winds: east, south,
// north, west. It intentionally differs from WindValue's declared order
// (east, south, west, north) used for Tile.Less; keep the mismatch.
var windIDOrder = [4]WindValue{East, South, North, West}

// simpleSuitIDOrder is the external suit ordering: dot, bamboo, character.
var simpleSuitIDOrder = [3]Suit{Dot, Bamboo, Character}

// TileID returns the 0..33 external identifier for a non-flower tile, or
// false if t is a flower (flowers have no external id: they are never
// discarded, claimed or scored as an action).
func TileID(t Tile) (int, bool) {
	switch t.Suit {
	case Dot, Bamboo, Character:
		for i, s := range simpleSuitIDOrder {
			if s == t.Suit {
				return i*9 + (t.Value - 1), true
			}
		}
	case Dragon:
		return 27 + t.Value, true
	case Wind:
		for i, w := range windIDOrder {
			if int(w) == t.Value {
				return 30 + i, true
			}
		}
	}
	return 0, false
}

// TileFromID is the inverse of TileID. id must be 0..33.
func TileFromID(id int) (Tile, error) {
	switch {
	case id >= 0 && id < 27:
		suit := simpleSuitIDOrder[id/9]
		return NewSimpleTile(suit, (id%9)+1)
	case id >= 27 && id < 30:
		return NewDragonTile(DragonValue(id - 27)), nil
	case id >= 30 && id < 34:
		return NewWindTile(windIDOrder[id-30]), nil
	default:
		return Tile{}, fmt.Errorf("mahjong: tile id %d out of range 0..33", id)
	}
}

// ChowID returns the 0..20 external identifier for the chow headed by t:
// 7 per simple suit (heads 1..7), grouped dot/bamboo/character.
func ChowID(head Tile) (int, bool) {
	if !head.IsSimple() || head.Value < 1 || head.Value > 7 {
		return 0, false
	}
	for i, s := range simpleSuitIDOrder {
		if s == head.Suit {
			return i*7 + (head.Value - 1), true
		}
	}
	return 0, false
}

// ChowFromID is the inverse of ChowID. id must be 0..20; it returns the
// chow's head tile.
func ChowFromID(id int) (Tile, error) {
	if id < 0 || id >= 21 {
		return Tile{}, fmt.Errorf("mahjong: chow id %d out of range 0..20", id)
	}
	suit := simpleSuitIDOrder[id/7]
	return NewSimpleTile(suit, (id%7)+1)
}

// Action is a single integer in the 0..124 external action space:
//
//	0..33    discard tile id
//	34..54   form the chow with this chow id
//	55..88   form a pung of tile id (action-55)
//	89..122  form a kong of tile id (action-89)
//	123      declare a win
//	124      pass / decline a reaction
type Action int

const (
	NumActions = 125

	ActionWin  Action = 123
	ActionPass Action = 124
)

// DiscardAction encodes discarding t.
func DiscardAction(t Tile) (Action, bool) {
	id, ok := TileID(t)
	if !ok {
		return 0, false
	}
	return Action(id), true
}

// ChowAction encodes forming the chow headed by t.
func ChowAction(head Tile) (Action, bool) {
	id, ok := ChowID(head)
	if !ok {
		return 0, false
	}
	return Action(34 + id), true
}

// PungAction encodes forming a pung of t.
func PungAction(t Tile) (Action, bool) {
	id, ok := TileID(t)
	if !ok {
		return 0, false
	}
	return Action(55 + id), true
}

// KongAction encodes forming a kong of t.
func KongAction(t Tile) (Action, bool) {
	id, ok := TileID(t)
	if !ok {
		return 0, false
	}
	return Action(89 + id), true
}

// Decode classifies an action id back into its kind and payload tile.
// kind is one of "discard", "chow", "pung", "kong", "win", "pass".
func Decode(a Action) (kind string, tile Tile, err error) {
	switch {
	case a >= 0 && a < 34:
		tile, err = TileFromID(int(a))
		return "discard", tile, err
	case a >= 34 && a < 55:
		tile, err = ChowFromID(int(a) - 34)
		return "chow", tile, err
	case a >= 55 && a < 89:
		tile, err = TileFromID(int(a) - 55)
		return "pung", tile, err
	case a >= 89 && a < 123:
		tile, err = TileFromID(int(a) - 89)
		return "kong", tile, err
	case a == ActionWin:
		return "win", Tile{}, nil
	case a == ActionPass:
		return "pass", Tile{}, nil
	default:
		return "", Tile{}, fmt.Errorf("mahjong: action %d out of range 0..%d", a, NumActions-1)
	}
}
