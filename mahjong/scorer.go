package mahjong

// faanTable is the canonical table from the external interfaces contract.
// thirteen_orphans and nine_gates are handled as fixed-value overrides in
// Score rather than looked up here.
var faanTable = map[WinTag]int{
	TagSelfPick:        1,
	TagConcealedHand:   1,
	TagRobKong:         1,
	TagLastDraw:        1,
	TagWinByKong:       1,
	TagWinByDoubleKong: 8,
	TagHeavenlyHand:    13,
	TagEarthlyHand:     13,
}

const (
	faanCommonHand     = 1
	faanAllPungKong    = 3
	faanHalfFlush      = 3
	faanFullFlush      = 7
	faanAllHonors      = 7
	faanSmallDragons   = 5
	faanGreatDragons   = 8
	faanSmallWinds     = 6
	faanGreatWinds     = 10
	faanNoFlowers      = 1
	faanOwnFlower      = 1
	faanEighteenArhats = 10
	faanSetOfFlowers   = 2
	faanOrphans        = 10
	faanSeatWind       = 1
	faanRoundWind      = 1
	faanMixedOrphans   = 1
	faanDragon         = 1

	faanThirteenOrphansFixed = 13
	faanNineGatesFixed       = 10

	faanCap = 13
)

// Scorer computes faan for a decomposition plus HandContext and picks the
// highest-scoring decomposition among several candidates.
type Scorer struct{}

// NewScorer returns a ready-to-use scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the faan value of melds (pair + sets + flower singletons)
// under ctx. Special hands short-circuit via ctx's flags: the caller is
// expected to pass ctx.ThirteenOrphans/NineGates straight from CheckWin.
func (s *Scorer) Score(melds []Meld, ctx *HandContext) int {
	if ctx.ThirteenOrphans {
		return faanThirteenOrphansFixed
	}
	if ctx.NineGates {
		return faanNineGatesFixed
	}

	total := 0
	for tag := range ctx.WinCondition {
		if ctx.WinCondition[tag] {
			total += faanTable[tag]
		}
	}

	var sets, flowers []Meld
	var pair Meld
	havePair := false
	for _, m := range melds {
		switch m.Kind {
		case Pair:
			pair = m
			havePair = true
		case Singleton:
			flowers = append(flowers, m)
		case Chow, Pung, Kong:
			sets = append(sets, m)
		}
	}

	dragonPungCount := 0
	windPungCount := 0
	chowCount := 0
	pungKongCount := 0
	for _, m := range sets {
		if m.Kind == Chow {
			chowCount++
			continue
		}
		pungKongCount++
		tile := m.Tiles[0]
		switch tile.Suit {
		case Dragon:
			total += faanDragon
			dragonPungCount++
		case Wind:
			if int(ctx.SeatWind) == tile.Value {
				total += faanSeatWind
			}
			if int(ctx.RoundWind) == tile.Value {
				total += faanRoundWind
			}
			windPungCount++
		}
	}

	// Flowers.
	if len(flowers) == 0 {
		total += faanNoFlowers
	}
	haveFlowerOrdinal := map[int]bool{}
	haveSeasonOrdinal := map[int]bool{}
	for _, f := range flowers {
		t := f.Tiles[0]
		if int(ctx.SeatWind) == t.FlowerOrdinal()-1 {
			total += faanOwnFlower
		}
		if t.IsSeason() {
			haveSeasonOrdinal[t.FlowerOrdinal()] = true
		} else {
			haveFlowerOrdinal[t.FlowerOrdinal()] = true
		}
	}
	if len(haveFlowerOrdinal) == 4 {
		total += faanSetOfFlowers
	}
	if len(haveSeasonOrdinal) == 4 {
		total += faanSetOfFlowers
	}

	// Structural.
	if pungKongCount == 0 {
		total += faanCommonHand
	} else if chowCount == 0 {
		kongCount := 0
		for _, m := range sets {
			if m.Kind == Kong {
				kongCount++
			}
		}
		if kongCount == 4 {
			total += faanEighteenArhats
		} else {
			total += faanAllPungKong
		}
	}

	// Suit composition.
	honorsPresent := dragonPungCount > 0 || windPungCount > 0 || (havePair && pair.Tiles[0].IsHonor())
	simpleSuits := map[Suit]bool{}
	for _, m := range sets {
		if m.Tiles[0].IsSimple() {
			simpleSuits[m.Tiles[0].Suit] = true
		}
	}
	if havePair && pair.Tiles[0].IsSimple() {
		simpleSuits[pair.Tiles[0].Suit] = true
	}
	switch {
	case honorsPresent && len(simpleSuits) == 1:
		total += faanHalfFlush
	case honorsPresent && len(simpleSuits) == 0:
		total += faanAllHonors
	case !honorsPresent && len(simpleSuits) == 1:
		total += faanFullFlush
	}

	// Great/small dragons and winds.
	if dragonPungCount == 3 {
		total += faanGreatDragons
	} else if dragonPungCount == 2 && havePair && pair.Tiles[0].Suit == Dragon {
		total += faanSmallDragons
	}
	if windPungCount == 4 {
		total += faanGreatWinds
	} else if windPungCount == 3 && havePair && pair.Tiles[0].Suit == Wind {
		total += faanSmallWinds
	}

	// Orphan condition: every non-flower meld and the pair holds only
	// terminals or honors. Chows can never qualify.
	orphanHand := chowCount == 0
	if orphanHand {
		for _, m := range sets {
			if !m.Tiles[0].IsOrphan() {
				orphanHand = false
				break
			}
		}
	}
	if orphanHand && havePair && !pair.Tiles[0].IsOrphan() {
		orphanHand = false
	}
	if orphanHand {
		if honorsPresent {
			total += faanMixedOrphans
		} else {
			total += faanOrphans
		}
	}

	if total > faanCap {
		total = faanCap
	}
	return total
}

// Best picks the highest-scoring decomposition from result, returning
// false if result has none. Ties resolve to the first maximum found,
// matching the deterministic-choice contract.
func (s *Scorer) Best(result *WinResult, ctx *HandContext) (Decomposition, int, bool) {
	if len(result.Decompositions) == 0 {
		return Decomposition{}, 0, false
	}
	best := result.Decompositions[0]
	bestScore := s.Score(best.Melds, ctx)
	for _, d := range result.Decompositions[1:] {
		score := s.Score(d.Melds, ctx)
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best, bestScore, true
}
