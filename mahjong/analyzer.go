package mahjong

// HandAnalyzer detects available melds and enumerates winning-hand
// decompositions. It is stateless; every method takes the tiles it needs
// directly so callers can probe hypothetical hands without mutating
// GameState.
type HandAnalyzer struct{}

// NewHandAnalyzer returns a ready-to-use analyzer.
func NewHandAnalyzer() *HandAnalyzer {
	return &HandAnalyzer{}
}

// hand34 counts non-flower tiles into a fixed 34-slot array indexed by
// TileID, the representation the structural search recurses over.
func hand34(tiles []Tile) [34]int {
	var counts [34]int
	for _, t := range tiles {
		if id, ok := TileID(t); ok {
			counts[id]++
		}
	}
	return counts
}

// CheckChow returns every chow claimable against discard given hand,
// ordered by ascending head value: the discard as the run's tail, then
// its middle, then its head.
func (a *HandAnalyzer) CheckChow(hand []Tile, discard Tile) []Meld {
	if !discard.IsSimple() {
		return nil
	}
	var out []Meld
	for _, head := range []int{discard.Value - 2, discard.Value - 1, discard.Value} {
		if head < 1 || head+2 > 9 {
			continue
		}
		need := [3]int{head, head + 1, head + 2}
		have := true
		var needed []Tile
		for _, v := range need {
			t, err := NewSimpleTile(discard.Suit, v)
			if err != nil {
				have = false
				break
			}
			if t == discard {
				continue
			}
			needed = append(needed, t)
		}
		if !have {
			continue
		}
		if !handHasAll(hand, needed) {
			continue
		}
		headTile, err := NewSimpleTile(discard.Suit, head)
		if err != nil {
			continue
		}
		m, err := newChow(headTile)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

// handHasAll reports whether hand contains every tile in needed, counting
// duplicate requests against duplicate supply.
func handHasAll(hand []Tile, needed []Tile) bool {
	remaining := make([]Tile, len(hand))
	copy(remaining, hand)
	for _, want := range needed {
		found := false
		for i, h := range remaining {
			if h == want {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CheckPung reports the pung claimable against tile, if hand holds at
// least two matching concealed tiles.
func (a *HandAnalyzer) CheckPung(hand []Tile, tile Tile) (Meld, bool) {
	count := 0
	for _, h := range hand {
		if h == tile {
			count++
		}
	}
	if count >= 2 {
		return newPung(tile), true
	}
	return Meld{}, false
}

// CheckKong returns every way to form a kong of tile: concealed (four
// copies already in hand), claimed (three in hand plus a claimed
// discard), or added (promoting an already-exposed pung of tile using a
// self-drawn tile). selfDrawn distinguishes the draw-time case (concealed
// or added kong) from the discard-claim case (claimed kong).
func (a *HandAnalyzer) CheckKong(hand []Tile, melds []Meld, tile Tile, selfDrawn bool) []Meld {
	count := 0
	for _, h := range hand {
		if h == tile {
			count++
		}
	}
	var out []Meld
	if selfDrawn {
		if count >= 4 {
			out = append(out, newKong(tile))
		}
		for _, m := range melds {
			if m.Kind == Pung && m.Tiles[0] == tile && count >= 1 {
				out = append(out, newKong(tile))
			}
		}
	} else if count >= 3 {
		out = append(out, newKong(tile))
	}
	return out
}

// Decomposition is one complete way of partitioning a winning hand into a
// pair, four sets and any flower singletons. For the two special hands
// (thirteen orphans, nine gates) Melds holds a single RawHand meld instead
// of a structural split.
type Decomposition struct {
	Melds []Meld
}

// WinResult is CheckWin's output: the special-hand flags plus every
// structural decomposition the hand admits (the Scorer picks the
// highest-scoring one).
type WinResult struct {
	ThirteenOrphans bool
	NineGates       bool
	Decompositions  []Decomposition
}

var kokushiKinds = buildKokushiKinds()

func buildKokushiKinds() []Tile {
	var out []Tile
	for _, suit := range []Suit{Dot, Bamboo, Character} {
		for _, v := range []int{1, 9} {
			t, _ := NewSimpleTile(suit, v)
			out = append(out, t)
		}
	}
	for d := Red; d <= Green; d++ {
		out = append(out, NewDragonTile(d))
	}
	for w := East; w <= North; w++ {
		out = append(out, NewWindTile(w))
	}
	return out
}

// CheckWin determines whether hand (the concealed tiles, including the
// candidate winning tile) plus exposedSets (already-declared chows/pungs/
// kongs) and flowers (recorded flower singletons) form a winning hand.
func (a *HandAnalyzer) CheckWin(hand []Tile, exposedSets []Meld, flowers []Meld) (*WinResult, bool) {
	result := &WinResult{}

	if len(exposedSets) == 0 && len(hand) == 14 {
		if isThirteenOrphans(hand) {
			result.ThirteenOrphans = true
			result.Decompositions = []Decomposition{{Melds: []Meld{{Kind: RawHand, Tiles: SortTiles(hand)}}}}
			return result, true
		}
		if isNineGates(hand) {
			result.NineGates = true
			result.Decompositions = []Decomposition{{Melds: []Meld{{Kind: RawHand, Tiles: SortTiles(hand)}}}}
			return result, true
		}
	}

	setsNeeded := 4 - len(exposedSets)
	if setsNeeded < 0 || len(hand) != 2+3*setsNeeded {
		return result, false
	}

	counts := hand34(hand)
	for pairID := 0; pairID < 34; pairID++ {
		if counts[pairID] < 2 {
			continue
		}
		work := counts
		work[pairID] -= 2
		pairTile, err := TileFromID(pairID)
		if err != nil {
			continue
		}
		for _, sets := range enumerateMeldSets(work, setsNeeded) {
			melds := make([]Meld, 0, len(exposedSets)+len(sets)+len(flowers)+1)
			melds = append(melds, exposedSets...)
			melds = append(melds, newPair(pairTile))
			melds = append(melds, sets...)
			melds = append(melds, flowers...)
			result.Decompositions = append(result.Decompositions, Decomposition{Melds: melds})
		}
	}
	return result, len(result.Decompositions) > 0
}

// enumerateMeldSets finds every way to partition counts into exactly
// setsNeeded kongs/pungs/chows, always branching on the lowest-ordered
// tile with remaining count (mirroring the mutate-then-restore backtrack
// shape used throughout this package).
func enumerateMeldSets(counts [34]int, setsNeeded int) [][]Meld {
	var results [][]Meld
	var current []Meld

	var rec func(remaining [34]int, left int)
	rec = func(remaining [34]int, left int) {
		if left == 0 {
			for _, c := range remaining {
				if c != 0 {
					return
				}
			}
			cp := make([]Meld, len(current))
			copy(cp, current)
			results = append(results, cp)
			return
		}

		idx := -1
		for i := 0; i < 34; i++ {
			if remaining[i] > 0 {
				idx = i
				break
			}
		}
		if idx == -1 {
			return
		}
		tile, err := TileFromID(idx)
		if err != nil {
			return
		}

		if remaining[idx] >= 4 {
			remaining[idx] -= 4
			current = append(current, newKong(tile))
			rec(remaining, left-1)
			current = current[:len(current)-1]
			remaining[idx] += 4
		}

		if remaining[idx] >= 3 {
			remaining[idx] -= 3
			current = append(current, newPung(tile))
			rec(remaining, left-1)
			current = current[:len(current)-1]
			remaining[idx] += 3
		}

		if tile.IsSimple() && tile.Value <= 7 {
			i1, i2 := idx+1, idx+2
			if remaining[i1] > 0 && remaining[i2] > 0 {
				remaining[idx]--
				remaining[i1]--
				remaining[i2]--
				if m, err := newChow(tile); err == nil {
					current = append(current, m)
					rec(remaining, left-1)
					current = current[:len(current)-1]
				}
				remaining[idx]++
				remaining[i1]++
				remaining[i2]++
			}
		}
	}

	rec(counts, setsNeeded)
	return results
}

// isThirteenOrphans reports whether hand contains at least one of each of
// the 13 terminal-and-honor kinds. hand must already be 14 tiles.
func isThirteenOrphans(hand []Tile) bool {
	for _, kind := range kokushiKinds {
		found := false
		for _, h := range hand {
			if h == kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// isNineGates reports whether hand is a single simple suit, concealed,
// covering every value 1..9 with at least three 1s and three 9s.
func isNineGates(hand []Tile) bool {
	if len(hand) != 14 {
		return false
	}
	suit := hand[0].Suit
	if !hand[0].IsSimple() {
		return false
	}
	var counts [9]int
	for _, t := range hand {
		if t.Suit != suit || !t.IsSimple() {
			return false
		}
		counts[t.Value-1]++
	}
	if counts[0] < 3 || counts[8] < 3 {
		return false
	}
	for v := 1; v < 8; v++ {
		if counts[v] < 1 {
			return false
		}
	}
	return true
}
