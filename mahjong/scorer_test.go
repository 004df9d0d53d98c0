package mahjong

import "testing"

// These scenarios run Scorer.Score against a hand-built decomposition,
// exercising the accumulation rules in isolation from HandAnalyzer's own
// decomposition search (which, given this same multiset, would legally
// prefer a higher-scoring all-pung reading of the bamboo run; see
// TestCheckWinPicksHighestScoring).
func TestScoreS1HalfFlushWithDragonAndSelfPick(t *testing.T) {
	s := NewScorer()
	oneTwoThree, err := newChow(mustSimple(t, Bamboo, 1))
	if err != nil {
		t.Fatal(err)
	}
	melds := []Meld{oneTwoThree, oneTwoThree, oneTwoThree, newPung(NewDragonTile(Red)), newPair(NewWindTile(West))}
	ctx := NewHandContext(East, East)
	ctx.set(TagSelfPick)

	if got := s.Score(melds, ctx); got != 6 {
		t.Fatalf("score = %d, want 6", got)
	}
}

func TestScoreS2FullFlushAllPungKong(t *testing.T) {
	s := NewScorer()
	melds := []Meld{
		newPung(mustSimple(t, Bamboo, 1)),
		newPung(mustSimple(t, Bamboo, 2)),
		newKong(mustSimple(t, Bamboo, 3)),
		newKong(mustSimple(t, Bamboo, 4)),
		newPair(mustSimple(t, Bamboo, 5)),
	}
	ctx := NewHandContext(East, East)
	ctx.set(TagSelfPick)
	ctx.set(TagLastDraw)

	if got := s.Score(melds, ctx); got != 13 {
		t.Fatalf("score = %d, want 13", got)
	}
}

func TestScoreS3SeatAndRoundWindPung(t *testing.T) {
	s := NewScorer()
	twoThreeFour, err := newChow(mustSimple(t, Bamboo, 2))
	if err != nil {
		t.Fatal(err)
	}
	season, err := NewFlowerTile(6)
	if err != nil {
		t.Fatal(err)
	}
	melds := []Meld{
		newPung(mustSimple(t, Dot, 1)),
		twoThreeFour,
		twoThreeFour,
		newPung(NewWindTile(East)),
		newPair(mustSimple(t, Bamboo, 4)),
		newSingleton(season),
	}
	ctx := NewHandContext(East, East)

	if got := s.Score(melds, ctx); got != 2 {
		t.Fatalf("score = %d, want 2", got)
	}
}

func TestScoreS4ThirteenOrphansFixed(t *testing.T) {
	s := NewScorer()
	ctx := NewHandContext(South, West)
	ctx.set(TagSelfPick)
	ctx.ThirteenOrphans = true

	if got := s.Score(nil, ctx); got != 13 {
		t.Fatalf("score = %d, want 13 regardless of other tags", got)
	}
}

func TestScoreS5OrphansCappedAtThirteen(t *testing.T) {
	s := NewScorer()
	melds := []Meld{
		newPung(mustSimple(t, Bamboo, 1)),
		newPung(mustSimple(t, Bamboo, 9)),
		newPung(mustSimple(t, Dot, 1)),
		newPung(mustSimple(t, Character, 9)),
		newPair(mustSimple(t, Character, 1)),
	}
	ctx := NewHandContext(East, East)

	if got := s.Score(melds, ctx); got != 13 {
		t.Fatalf("score = %d, want 13 (14 accumulated, capped)", got)
	}
}

func TestScoreNineGatesFixedReplacesAccumulation(t *testing.T) {
	s := NewScorer()
	ctx := NewHandContext(East, East)
	ctx.set(TagSelfPick)
	ctx.set(TagLastDraw)
	ctx.NineGates = true

	if got := s.Score(nil, ctx); got != 10 {
		t.Fatalf("score = %d, want 10 (nine_gates replaces, not adds)", got)
	}
}

// TestCheckWinPicksHighestScoring is testable property 3/4: when several
// decompositions exist, the analyzer+scorer pair picks the maximum.
func TestCheckWinPicksHighestScoring(t *testing.T) {
	a := NewHandAnalyzer()
	s := NewScorer()
	// The S1 multiset: three each of 1-, 2- and 3-bamboo read either as
	// three identical chows or as three pungs.
	var hand []Tile
	for i := 0; i < 3; i++ {
		hand = append(hand, mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 3), NewDragonTile(Red))
	}
	hand = append(hand, NewWindTile(West), NewWindTile(West))

	result, ok := a.CheckWin(hand, nil, nil)
	if !ok {
		t.Fatalf("expected a winning decomposition")
	}
	ctx := NewHandContext(East, East)
	ctx.set(TagSelfPick)
	best, score, ok := s.Best(result, ctx)
	if !ok {
		t.Fatalf("expected Best to find a decomposition")
	}
	for _, d := range result.Decompositions {
		if other := s.Score(d.Melds, ctx); other > score {
			t.Fatalf("Best returned %d but decomposition %v scores %d", score, d.Melds, other)
		}
	}
	if score < 6 {
		t.Fatalf("best score = %d, want at least the all-chow reading's 6", score)
	}
	_ = best
}
