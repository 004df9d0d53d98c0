package mahjong

import "testing"

// acceptingPlayer always claims the highest-priority option it is
// offered (win, then kong, then pung, then chow) and discards from a
// fixed index. It exists to drive GameEngine scenarios where what
// matters is the engine's own cross-seat priority resolution, not any
// individual player's strategy.
type acceptingPlayer struct {
	discardIdx int
}

func (p *acceptingPlayer) QueryMeld(gs *GameState, seat int, options MeldOptions) MeldChoice {
	switch {
	case len(options.Win) > 0:
		return MeldChoice{Kind: "win", Meld: options.Win}
	case len(options.Kong) > 0:
		return MeldChoice{Kind: "kong", Meld: []Meld{options.Kong[0]}}
	case len(options.Pung) > 0:
		return MeldChoice{Kind: "pung", Meld: []Meld{options.Pung[0]}}
	case len(options.Chow) > 0:
		return MeldChoice{Kind: "chow", Meld: []Meld{options.Chow[0]}}
	default:
		return MeldChoice{}
	}
}

func (p *acceptingPlayer) QueryDiscard(gs *GameState, seat int, sortedView bool) int {
	return p.discardIdx
}

// sortedIndexOf returns target's position in hand's sorted view, the
// index space QueryDiscard is asked to answer in.
func sortedIndexOf(t *testing.T, hand []Tile, target Tile) int {
	t.Helper()
	sorted := SortTiles(hand)
	for i, tile := range sorted {
		if tile == target {
			return i
		}
	}
	t.Fatalf("%v not found in hand %v", target, hand)
	return -1
}

func dragon(t *testing.T, d DragonValue) Tile { return NewDragonTile(d) }

// TestReactionPriorityWinBeatsCloserPung is testable property 6: a seat
// two away from the discarder who can win outranks a closer seat who
// can only pung, even though the closer seat is asked first.
func TestReactionPriorityWinBeatsCloserPung(t *testing.T) {
	bamboo7 := mustSimple(t, Bamboo, 7)

	discarderHand := append(append(dotRun(t, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3)),
		bamboo7, dragon(t, Red))

	// Seat 1 (offset 1, closer) can only pung bamboo-7.
	pungerHand := []Tile{
		bamboo7, bamboo7,
		mustSimple(t, Character, 4), mustSimple(t, Character, 5), mustSimple(t, Character, 6),
		mustSimple(t, Character, 7), mustSimple(t, Character, 8), mustSimple(t, Character, 9),
		NewWindTile(South), NewWindTile(West), NewWindTile(North),
	}

	// Seat 2 (offset 2, farther) completes a full hand on bamboo-7: a
	// 5-6-7 bamboo chow plus three pungs and a pair.
	winnerHand := []Tile{
		mustSimple(t, Bamboo, 5), mustSimple(t, Bamboo, 6),
		mustSimple(t, Dot, 1), mustSimple(t, Dot, 1), mustSimple(t, Dot, 1),
		mustSimple(t, Dot, 2), mustSimple(t, Dot, 2), mustSimple(t, Dot, 2),
		mustSimple(t, Dot, 3), mustSimple(t, Dot, 3), mustSimple(t, Dot, 3),
		mustSimple(t, Character, 9), mustSimple(t, Character, 9),
	}

	// Seat 3: nothing to claim.
	bystanderHand := []Tile{
		NewWindTile(East), NewWindTile(South), NewWindTile(West), NewWindTile(North),
		dragon(t, Red), dragon(t, White), dragon(t, Green),
		mustSimple(t, Dot, 4), mustSimple(t, Dot, 5), mustSimple(t, Dot, 6),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3),
	}

	gs := &GameState{
		Wall:          &Wall{tiles: []Tile{mustSimple(t, Dot, 9)}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         false,
		Discard:       true,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	hands := [4][]Tile{discarderHand, pungerHand, winnerHand, bystanderHand}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
		gs.Players[seat].Hand = hands[seat]
	}

	discardIdx := sortedIndexOf(t, discarderHand, bamboo7)
	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{discardIdx: discardIdx},
		&acceptingPlayer{},
		&acceptingPlayer{},
		&acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !gs.Done {
		t.Fatalf("expected game to be done")
	}
	if gs.Winner != 2 {
		t.Fatalf("winner = %d, want 2 (win outranks the closer seat's pung)", gs.Winner)
	}
	if len(gs.Players[1].Melds) != 0 {
		t.Fatalf("seat 1's pung must not have completed once seat 2 claimed the win")
	}
	if !gs.WinningHandState.has(TagWinByDiscard) {
		t.Fatalf("expected win_by_discard tag")
	}
}

// TestKongReplacementDrawGoesToSameSeat is testable property 7: after a
// self-declared kong, the next draw goes to the same player, the kong
// flag is set, and winning on that replacement draw stamps win_by_kong.
func TestKongReplacementDrawGoesToSameSeat(t *testing.T) {
	dot1 := mustSimple(t, Dot, 1)
	hand := []Tile{
		dot1, dot1, dot1,
		mustSimple(t, Dot, 2), mustSimple(t, Dot, 2), mustSimple(t, Dot, 2),
		mustSimple(t, Dot, 3), mustSimple(t, Dot, 3), mustSimple(t, Dot, 3),
		mustSimple(t, Dot, 4), mustSimple(t, Dot, 4),
		mustSimple(t, Dot, 6), mustSimple(t, Dot, 7),
	}

	gs := &GameState{
		// Draw() pops the tail first: the 4th dot-1 (completing the kong)
		// comes off before dot-8 (the replacement draw).
		Wall:          &Wall{tiles: []Tile{mustSimple(t, Dot, 8), dot1}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         false,
		Discard:       false,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
	}
	gs.Players[0].Hand = hand
	// Other seats need nothing; they are never consulted this turn.
	gs.Players[1].Hand = []Tile{NewWindTile(East)}
	gs.Players[2].Hand = []Tile{NewWindTile(South)}
	gs.Players[3].Hand = []Tile{NewWindTile(West)}

	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !gs.Done || gs.Winner != 0 {
		t.Fatalf("expected seat 0 to win, got done=%v winner=%d", gs.Done, gs.Winner)
	}
	if len(gs.Players[0].Melds) != 1 || gs.Players[0].Melds[0].Kind != Kong {
		t.Fatalf("expected seat 0 to hold exactly one kong, got %v", gs.Players[0].Melds)
	}
	if !gs.WinningHandState.has(TagWinByKong) {
		t.Fatalf("expected win_by_kong tag")
	}
	if !gs.WinningHandState.has(TagLastDraw) {
		t.Fatalf("expected last_draw tag once the wall empties on the replacement draw")
	}
}

// TestRobTheKong is testable property 8: upgrading an exposed pung to a
// kong can be robbed by another seat who wins on the same tile; the
// kong does not complete when that happens.
func TestRobTheKong(t *testing.T) {
	east := NewWindTile(East)

	gs := &GameState{
		Wall:          &Wall{tiles: []Tile{east}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         false,
		Discard:       false,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
	}

	// Seat 0 already holds an exposed pung of east wind and one more
	// concealed copy sits in the wall as the next draw.
	gs.Players[0].Melds = []Meld{{Kind: Pung, Tiles: []Tile{east, east, east}, From: 2}}
	gs.Players[0].Hand = []Tile{
		NewDragonTile(Red), NewDragonTile(White), NewDragonTile(Green),
		mustSimple(t, Dot, 4), mustSimple(t, Dot, 5), mustSimple(t, Dot, 6),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3),
		mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 3),
	}

	// Seat 1 (checked first) wins on east wind: pair of dot-9 plus three
	// bamboo pungs plus the robbed pung-turned-east-wind pung.
	gs.Players[1].Hand = []Tile{
		mustSimple(t, Dot, 9), mustSimple(t, Dot, 9),
		mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 1),
		mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 2),
		mustSimple(t, Bamboo, 3), mustSimple(t, Bamboo, 3), mustSimple(t, Bamboo, 3),
		east, east,
	}
	gs.Players[2].Hand = []Tile{NewWindTile(South)}
	gs.Players[3].Hand = []Tile{NewWindTile(West)}

	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !gs.Done || gs.Winner != 1 {
		t.Fatalf("expected seat 1 to rob the kong and win, got done=%v winner=%d", gs.Done, gs.Winner)
	}
	if !gs.WinningHandState.has(TagRobKong) {
		t.Fatalf("expected rob_kong tag")
	}
	if len(gs.Players[0].Melds) != 1 || gs.Players[0].Melds[0].Kind != Pung {
		t.Fatalf("robbed kong must not complete: seat 0 melds = %v", gs.Players[0].Melds)
	}
	if !gs.Players[0].HasTile(east) {
		t.Fatalf("seat 0 should keep its concealed east-wind tile once the kong is robbed")
	}
}

// TestSelfKongOnOpeningHandClearsFirst covers the dealer self-declaring a
// concealed kong straight out of the untouched opening deal, before any
// discard has happened this game. It must still draw its replacement tile
// this same Step call rather than getting stuck behind the First gate.
func TestSelfKongOnOpeningHandClearsFirst(t *testing.T) {
	dot1 := mustSimple(t, Dot, 1)
	hand := []Tile{
		dot1, dot1, dot1, dot1,
		mustSimple(t, Dot, 2), mustSimple(t, Dot, 3), mustSimple(t, Dot, 4),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3),
		mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 3),
		dragon(t, Red),
	}

	gs := &GameState{
		Wall:          &Wall{tiles: []Tile{dragon(t, White)}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         true,
		Discard:       false,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
	}
	gs.Players[0].Hand = hand
	gs.Players[1].Hand = []Tile{NewWindTile(East)}
	gs.Players[2].Hand = []Tile{NewWindTile(South)}
	gs.Players[3].Hand = []Tile{NewWindTile(West)}

	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{}, &acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if gs.Done {
		t.Fatalf("hand has no legal win here, game should not be over")
	}
	if gs.First {
		t.Fatalf("First must clear once the opening hand is touched by a self-kong")
	}
	if len(gs.Players[0].Melds) != 1 || gs.Players[0].Melds[0].Kind != Kong {
		t.Fatalf("expected seat 0 to hold exactly one kong, got %v", gs.Players[0].Melds)
	}
	if len(gs.Players[0].Hand) != 10 {
		t.Fatalf("expected the replacement draw to have been taken and a tile discarded, hand = %v", gs.Players[0].Hand)
	}
	if len(gs.Players[0].Discards) != 1 {
		t.Fatalf("expected seat 0 to have discarded once this turn")
	}
}

// TestPungClaimTransfersTurn covers the claim hand-off: a pung by the seat
// two after the discarder must move the turn pointer to that claimant (not
// simply to the next seat) and exempt exactly one turn from drawing.
func TestPungClaimTransfersTurn(t *testing.T) {
	red := dragon(t, Red)

	discarderHand := append(append(dotRun(t, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3)),
		mustSimple(t, Bamboo, 9), red)

	gs := &GameState{
		Wall:          &Wall{tiles: []Tile{mustSimple(t, Dot, 9)}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         false,
		Discard:       true,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
	}
	gs.Players[0].Hand = discarderHand
	gs.Players[1].Hand = []Tile{NewWindTile(East)}
	gs.Players[2].Hand = []Tile{red, red, mustSimple(t, Bamboo, 1), mustSimple(t, Bamboo, 2), mustSimple(t, Bamboo, 3)}
	gs.Players[3].Hand = []Tile{NewWindTile(West)}

	discardIdx := sortedIndexOf(t, discarderHand, red)
	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{discardIdx: discardIdx},
		&acceptingPlayer{},
		&acceptingPlayer{},
		&acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if gs.CurrentPlayer != 2 {
		t.Fatalf("current player = %d, want the claimant seat 2", gs.CurrentPlayer)
	}
	if !gs.Discard {
		t.Fatalf("Discard must be set so the claimant skips its draw")
	}
	if len(gs.Players[2].Melds) != 1 || gs.Players[2].Melds[0].Kind != Pung {
		t.Fatalf("seat 2 melds = %v, want one pung", gs.Players[2].Melds)
	}
	if len(gs.Players[0].Discards) != 0 {
		t.Fatalf("claimed discard must be popped from the discarder's pile")
	}

	wallBefore := gs.Wall.Len()
	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if gs.Wall.Len() != wallBefore {
		t.Fatalf("claimant must not draw on the turn after a claim")
	}
	if len(gs.Players[2].Hand) != 2 {
		t.Fatalf("seat 2 hand = %d tiles after its discard, want 2", len(gs.Players[2].Hand))
	}
	if gs.CurrentPlayer != 3 {
		t.Fatalf("current player = %d after an unclaimed discard, want 3", gs.CurrentPlayer)
	}
	if gs.Discard {
		t.Fatalf("Discard must be consumed after exempting one draw")
	}
}

// TestEarthlyHandOnDealersOpeningDiscard covers the earthly-hand stamp: a
// win claimed off the very first discard of the game carries earthly_hand
// on top of win_by_discard.
func TestEarthlyHandOnDealersOpeningDiscard(t *testing.T) {
	bamboo7 := mustSimple(t, Bamboo, 7)

	dealerHand := append(append(dotRun(t, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		mustSimple(t, Character, 1), mustSimple(t, Character, 2), mustSimple(t, Character, 3)),
		bamboo7, dragon(t, Red))

	winnerHand := []Tile{
		mustSimple(t, Bamboo, 5), mustSimple(t, Bamboo, 6),
		mustSimple(t, Dot, 1), mustSimple(t, Dot, 1), mustSimple(t, Dot, 1),
		mustSimple(t, Dot, 2), mustSimple(t, Dot, 2), mustSimple(t, Dot, 2),
		mustSimple(t, Dot, 3), mustSimple(t, Dot, 3), mustSimple(t, Dot, 3),
		mustSimple(t, Character, 9), mustSimple(t, Character, 9),
	}

	gs := &GameState{
		Wall:          &Wall{tiles: []Tile{mustSimple(t, Dot, 9)}},
		RoundWind:     East,
		CurrentPlayer: 0,
		First:         true,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for seat := 0; seat < 4; seat++ {
		gs.Players[seat] = NewPlayerState(seat, winds[seat])
	}
	gs.Players[0].Hand = dealerHand
	gs.Players[1].Hand = winnerHand
	gs.Players[2].Hand = []Tile{NewWindTile(South)}
	gs.Players[3].Hand = []Tile{NewWindTile(West)}

	discardIdx := sortedIndexOf(t, dealerHand, bamboo7)
	engine := NewGameEngine(gs, [4]PlayerPort{
		&acceptingPlayer{discardIdx: discardIdx},
		&acceptingPlayer{},
		&acceptingPlayer{},
		&acceptingPlayer{},
	})

	if err := engine.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !gs.Done || gs.Winner != 1 {
		t.Fatalf("expected seat 1 to win the opening discard, got done=%v winner=%d", gs.Done, gs.Winner)
	}
	if !gs.WinningHandState.has(TagEarthlyHand) {
		t.Fatalf("expected earthly_hand tag on a first-discard win")
	}
	if !gs.WinningHandState.has(TagWinByDiscard) {
		t.Fatalf("expected win_by_discard tag")
	}
	if gs.FinalFaan != 13 {
		t.Fatalf("faan = %d, want 13 (earthly hand alone reaches the cap)", gs.FinalFaan)
	}
}

// TestFullRandomGameConservesTilesAndTerminates plays complete games with
// randomized players and checks that every tile stays accounted for across
// the wall, hands, melds and discard piles, and that the game reaches a
// terminal state (win or drawn wall) in bounded steps.
func TestFullRandomGameConservesTilesAndTerminates(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 17, 99} {
		gs := NewGameState(seed, East, 0)
		engine := NewGameEngine(gs, [4]PlayerPort{
			NewRandomPlayer(seed + 100),
			NewRandomPlayer(seed + 200),
			NewRandomPlayer(seed + 300),
			NewRandomPlayer(seed + 400),
		})

		if got := countTiles(gs); got != 144 {
			t.Fatalf("seed %d: fresh game accounts for %d tiles, want 144", seed, got)
		}

		for steps := 0; !gs.Done; steps++ {
			if steps > 1000 {
				t.Fatalf("seed %d: game did not terminate within 1000 steps", seed)
			}
			if err := engine.Step(); err != nil {
				t.Fatalf("seed %d: Step: %v", seed, err)
			}
			if got := countTiles(gs); got != 144 {
				t.Fatalf("seed %d: conservation broken mid-game: %d tiles", seed, got)
			}
		}

		if gs.Winner >= 0 {
			if gs.WinningHandState == nil || gs.FinalFaan < 0 {
				t.Fatalf("seed %d: winner %d missing winning context", seed, gs.Winner)
			}
		} else if !gs.Draw {
			t.Fatalf("seed %d: terminal state is neither a win nor a drawn wall", seed)
		}
	}
}
