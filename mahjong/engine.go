package mahjong

import (
	"hkmahjong/common/log"

	"github.com/google/uuid"
)

// GameEngine orchestrates the turn state machine: draw, optional
// self-action, discard, and contended reactions, routing every decision
// through the seated Players' PlayerPort implementations.
type GameEngine struct {
	ID       uuid.UUID
	State    *GameState
	Analyzer *HandAnalyzer
	Scorer   *Scorer
	Players  [4]PlayerPort

	// expectedTiles is the tile total captured at construction; Step
	// verifies it never drifts (tiles are moved, never created/destroyed).
	expectedTiles int
}

// NewGameEngine wires a state and four decision agents into a ready
// engine. Each engine gets its own uuid so its log lines can be
// correlated across a batch of simulated games.
func NewGameEngine(state *GameState, players [4]PlayerPort) *GameEngine {
	return &GameEngine{
		ID:            uuid.New(),
		State:         state,
		Analyzer:      NewHandAnalyzer(),
		Scorer:        NewScorer(),
		Players:       players,
		expectedTiles: countTiles(state),
	}
}

// countTiles totals every tile the state currently accounts for: the
// wall, each hand, each meld, each discard pile.
func countTiles(gs *GameState) int {
	total := gs.Wall.Len()
	for _, p := range gs.Players {
		if p == nil {
			continue
		}
		total += len(p.Hand) + len(p.Discards)
		for _, m := range p.Melds {
			total += len(m.Tiles)
		}
	}
	return total
}

// verifyConservation halts the engine if a tile has been created or
// destroyed since construction. A full game built by NewGameState always
// accounts for exactly 144.
func (e *GameEngine) verifyConservation() error {
	if got := countTiles(e.State); got != e.expectedTiles {
		log.Error("tile conservation violated", "game", e.ID, "got", got, "want", e.expectedTiles)
		return ErrStateViolation
	}
	return nil
}

// turnOutcome reports how a sub-step of Step concluded.
type turnOutcome int

const (
	outcomeNone turnOutcome = iota
	outcomeWin
	outcomeReplay
	outcomeClaimed
)

func nonFlowerMelds(melds []Meld) []Meld {
	var out []Meld
	for _, m := range melds {
		if m.IsSet() {
			out = append(out, m)
		}
	}
	return out
}

func flowerMelds(melds []Meld) []Meld {
	var out []Meld
	for _, m := range melds {
		if m.Kind == Singleton {
			out = append(out, m)
		}
	}
	return out
}

// Step resolves exactly one full turn: the current player's draw,
// self-action and discard, then the other seats' contended reactions. A
// kong (self-declared and surviving robbery, or claimed from a discard)
// re-enters the same Step call for its replacement draw; a claimed pung
// or chow instead hands the turn to the claimant and returns, ready for
// the next Step call.
func (e *GameEngine) Step() error {
	gs := e.State
	if gs.Done {
		return ErrGameAlreadyDone
	}
	defer func() {
		if gs.Done {
			gs.Phase = PhaseDone
		} else {
			gs.Phase = PhaseDraw
		}
	}()

	for {
		gs.Phase = PhaseDraw
		if err := e.verifyConservation(); err != nil {
			return err
		}
		if gs.Wall.Len() == 0 {
			gs.Done, gs.Draw, gs.Winner = true, true, -1
			log.Debug("game drawn", "game", e.ID, "wall", gs.Wall.Len())
			return nil
		}

		seat := gs.CurrentPlayer
		player := gs.Player(seat)
		if player == nil {
			return ErrSeatOutOfRange
		}
		log.Debug("turn begin", "game", e.ID, "seat", seat, "first", gs.First, "discard", gs.Discard)

		if gs.First {
			if e.tryHeavenlyHand(seat, player) {
				return nil
			}
		}

		if !gs.First && !gs.Discard {
			tile, ok := e.drawTile(seat)
			if !ok {
				gs.Done, gs.Draw, gs.Winner = true, true, -1
				return nil
			}
			player.AddTile(tile)
		}
		// A claimed tile exempts exactly one turn from drawing.
		gs.Discard = false

		gs.Phase = PhaseSelfAction
		switch e.selfOptions(seat, player) {
		case outcomeWin:
			return nil
		case outcomeReplay:
			continue
		}

		gs.Phase = PhaseDiscard
		discarded := e.doDiscard(seat, player)
		log.Debug("discard", "game", e.ID, "seat", seat, "tile", discarded.String())
		firstSnapshot := gs.First
		gs.First = false

		gs.Phase = PhaseReaction
		switch e.reactions(seat, discarded, firstSnapshot) {
		case outcomeWin:
			return nil
		case outcomeReplay:
			continue
		case outcomeClaimed:
			// claimSet already handed the turn to the claimant.
			return e.verifyConservation()
		default:
			gs.CurrentPlayer = NextSeat(seat)
			gs.Kong, gs.DoubleKong = false, false
			return e.verifyConservation()
		}
	}
}

// drawTile pulls the next tile for seat, auto-melding any flower tiles
// drawn along the way and opening the kong (win-by-replacement) path for
// each one, per the wall's flower-replacement contract.
func (e *GameEngine) drawTile(seat int) (Tile, bool) {
	return e.State.drawReplacingFlowers(seat)
}

// tryHeavenlyHand checks the dealer's untouched opening hand for a win.
func (e *GameEngine) tryHeavenlyHand(seat int, player *PlayerState) bool {
	result, ok := e.Analyzer.CheckWin(player.Hand, nonFlowerMelds(player.Melds), flowerMelds(player.Melds))
	if !ok {
		return false
	}
	ctx := NewHandContext(player.SeatWind, e.State.RoundWind)
	ctx.ThirteenOrphans, ctx.NineGates = result.ThirteenOrphans, result.NineGates
	ctx.set(TagHeavenlyHand)
	best, _, _ := e.Scorer.Best(result, ctx)

	choice := e.Players[seat].QueryMeld(e.State, seat, MeldOptions{Win: best.Melds})
	if choice.Kind != "win" {
		return false
	}
	e.finishWin(seat, ctx, best.Melds)
	return true
}

// selfOptions offers the current player a win (on the tile just drawn)
// and any kong they can self-declare.
func (e *GameEngine) selfOptions(seat int, player *PlayerState) turnOutcome {
	gs := e.State
	ctx := NewHandContext(player.SeatWind, gs.RoundWind)
	ctx.set(TagSelfPick)
	if player.IsConcealed() {
		ctx.set(TagConcealedHand)
	}

	result, ok := e.Analyzer.CheckWin(player.Hand, nonFlowerMelds(player.Melds), flowerMelds(player.Melds))
	ctx.ThirteenOrphans, ctx.NineGates = result.ThirteenOrphans, result.NineGates

	var options MeldOptions
	if ok {
		best, _, _ := e.Scorer.Best(result, ctx)
		options.Win = best.Melds
	}
	options.Kong = e.selfKongCandidates(player)

	if options.Empty() {
		return outcomeNone
	}

	choice := e.Players[seat].QueryMeld(gs, seat, options)
	switch choice.Kind {
	case "win":
		if len(options.Win) == 0 {
			return outcomeNone
		}
		if gs.Wall.Len() == 0 {
			ctx.set(TagLastDraw)
		}
		if gs.Kong {
			if gs.DoubleKong {
				ctx.set(TagWinByDoubleKong)
			} else {
				ctx.set(TagWinByKong)
			}
		}
		e.finishWin(seat, ctx, options.Win)
		return outcomeWin
	case "kong":
		if !chosenFrom(options.Kong, choice.Meld) {
			return outcomeNone
		}
		return e.performSelfKong(seat, player, choice.Meld[0])
	default:
		return outcomeNone
	}
}

// chosenFrom reports whether chosen names exactly one meld and that meld
// is among the offered candidates.
func chosenFrom(candidates []Meld, chosen []Meld) bool {
	if len(chosen) != 1 {
		return false
	}
	for _, c := range candidates {
		if sameMeld(c, chosen[0]) {
			return true
		}
	}
	return false
}

func sameMeld(a, b Meld) bool {
	if a.Kind != b.Kind || len(a.Tiles) != len(b.Tiles) {
		return false
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			return false
		}
	}
	return true
}

// selfKongCandidates lists every kong the current player could declare
// from their own hand: concealed (four copies) or an upgrade of an
// already-exposed pung.
func (e *GameEngine) selfKongCandidates(player *PlayerState) []Meld {
	seen := map[Tile]bool{}
	var out []Meld
	for _, t := range player.Hand {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, e.Analyzer.CheckKong(player.Hand, player.Melds, t, true)...)
	}
	return out
}

// performSelfKong executes a self-declared kong. If it upgrades an
// already-exposed pung, the other three seats get a chance to rob it by
// winning on the same tile before the kong completes.
func (e *GameEngine) performSelfKong(seat int, player *PlayerState, meld Meld) turnOutcome {
	gs := e.State
	tile := meld.Tiles[0]

	upgradeIdx := -1
	for i, m := range player.Melds {
		if m.Kind == Pung && m.Tiles[0] == tile {
			upgradeIdx = i
			break
		}
	}

	if upgradeIdx >= 0 {
		if e.offerRobKong(seat, tile) {
			return outcomeWin
		}
		player.RemoveTile(tile)
		kong := newKong(tile)
		kong.From = player.Melds[upgradeIdx].From
		player.Melds[upgradeIdx] = kong
	} else {
		player.RemoveTiles([]Tile{tile, tile, tile, tile})
		player.AddMeld(newKong(tile))
	}

	if gs.Kong {
		gs.DoubleKong = true
	}
	gs.Kong = true
	gs.Discard = false
	// A self-kong touches the hand, so the dealer's untouched-opening-hand
	// window is over; this also un-gates Step's draw for the replacement
	// tile, which otherwise only fires once First has gone false.
	gs.First = false
	return outcomeReplay
}

// offerRobKong asks each of the other three seats, in seating order, to
// win on tile before a kong-upgrade completes. The first acceptance wins.
func (e *GameEngine) offerRobKong(seat int, tile Tile) bool {
	gs := e.State
	for offset := 1; offset <= 3; offset++ {
		robberSeat := NextSeatBy(seat, offset)
		robber := gs.Player(robberSeat)

		hypothetical := append(append([]Tile{}, robber.Hand...), tile)
		result, ok := e.Analyzer.CheckWin(hypothetical, nonFlowerMelds(robber.Melds), flowerMelds(robber.Melds))
		if !ok {
			continue
		}
		ctx := NewHandContext(robber.SeatWind, gs.RoundWind)
		ctx.ThirteenOrphans, ctx.NineGates = result.ThirteenOrphans, result.NineGates
		if robber.IsConcealed() {
			ctx.set(TagConcealedHand)
		}
		ctx.set(TagRobKong)
		if gs.Wall.Len() == 0 {
			ctx.set(TagLastDraw)
		}
		best, _, _ := e.Scorer.Best(result, ctx)

		choice := e.Players[robberSeat].QueryMeld(gs, robberSeat, MeldOptions{Win: best.Melds})
		if choice.Kind == "win" {
			e.finishWin(robberSeat, ctx, best.Melds)
			return true
		}
	}
	return false
}

// doDiscard asks the current player which tile to part with and records
// it. The engine always offers the sorted view; RandomPlayer and
// ScriptedPlayer both answer against whichever index space they're told.
// An out-of-range index re-prompts (discarding is mandatory); a port that
// keeps misbehaving forfeits its lowest tile so the game can go on.
func (e *GameEngine) doDiscard(seat int, player *PlayerState) Tile {
	const sortedView = true
	view := player.SortedHand()

	idx := -1
	for attempt := 0; attempt < 3; attempt++ {
		idx = e.Players[seat].QueryDiscard(e.State, seat, sortedView)
		if idx >= 0 && idx < len(view) {
			break
		}
		log.Warn("discard index out of range, re-prompting", "game", e.ID, "seat", seat, "index", idx)
	}
	if idx < 0 || idx >= len(view) {
		idx = 0
	}
	tile := view[idx]
	player.Discard(tile)
	return tile
}

// reactionClaim records one seat's accepted response to a discard, kept
// alongside the HandContext built while evaluating it (so concealed_hand
// and the special-hand flags survive into scoring without recomputation).
type reactionClaim struct {
	seat int
	meld []Meld
	ctx  *HandContext
}

// reactions gathers every other seat's response to discarded before
// resolving any of them, then applies the win > kong > pung > chow
// priority with seat-order tie-breaks.
func (e *GameEngine) reactions(seat int, discarded Tile, firstSnapshot bool) turnOutcome {
	gs := e.State
	var winClaim, kongClaim, pungClaim, chowClaim *reactionClaim

	for offset := 1; offset <= 3; offset++ {
		otherSeat := NextSeatBy(seat, offset)
		other := gs.Player(otherSeat)

		ctx := NewHandContext(other.SeatWind, gs.RoundWind)
		var winOption []Meld
		hypothetical := append(append([]Tile{}, other.Hand...), discarded)
		if result, ok := e.Analyzer.CheckWin(hypothetical, nonFlowerMelds(other.Melds), flowerMelds(other.Melds)); ok {
			ctx.ThirteenOrphans, ctx.NineGates = result.ThirteenOrphans, result.NineGates
			if other.IsConcealed() {
				ctx.set(TagConcealedHand)
			}
			best, _, _ := e.Scorer.Best(result, ctx)
			winOption = best.Melds
		}

		kongCands := e.Analyzer.CheckKong(other.Hand, other.Melds, discarded, false)
		var pungCands []Meld
		if pungCand, ok := e.Analyzer.CheckPung(other.Hand, discarded); ok {
			pungCands = []Meld{pungCand}
		}
		var chowCands []Meld
		if offset == 1 {
			chowCands = e.Analyzer.CheckChow(other.Hand, discarded)
		}

		options := MeldOptions{Win: winOption, Kong: kongCands, Pung: pungCands, Chow: chowCands}
		if options.Empty() {
			continue
		}

		// A choice of a kind that was never offered, or of a meld not
		// among the candidates, counts as a pass.
		choice := e.Players[otherSeat].QueryMeld(gs, otherSeat, options)
		switch choice.Kind {
		case "win":
			if len(winOption) > 0 && winClaim == nil {
				winClaim = &reactionClaim{otherSeat, winOption, ctx}
			}
		case "kong":
			if chosenFrom(kongCands, choice.Meld) && kongClaim == nil {
				kongClaim = &reactionClaim{otherSeat, choice.Meld, ctx}
			}
		case "pung":
			if chosenFrom(pungCands, choice.Meld) && pungClaim == nil {
				pungClaim = &reactionClaim{otherSeat, choice.Meld, ctx}
			}
		case "chow":
			if chosenFrom(chowCands, choice.Meld) && chowClaim == nil {
				chowClaim = &reactionClaim{otherSeat, choice.Meld, ctx}
			}
		}
	}

	switch {
	case winClaim != nil:
		ctx := winClaim.ctx
		ctx.set(TagWinByDiscard)
		if gs.Wall.Len() == 0 {
			ctx.set(TagLastDraw)
		}
		if firstSnapshot {
			ctx.set(TagEarthlyHand)
		}
		e.finishWin(winClaim.seat, ctx, winClaim.meld)
		return outcomeWin
	case kongClaim != nil:
		log.Debug("claim kong", "game", e.ID, "seat", kongClaim.seat, "from", seat, "tile", discarded.String())
		e.claimKong(seat, kongClaim.seat, discarded)
		return outcomeReplay
	case pungClaim != nil:
		log.Debug("claim pung", "game", e.ID, "seat", pungClaim.seat, "from", seat, "tile", discarded.String())
		e.claimSet(seat, pungClaim.seat, discarded, pungClaim.meld[0])
		return outcomeClaimed
	case chowClaim != nil:
		log.Debug("claim chow", "game", e.ID, "seat", chowClaim.seat, "from", seat, "tile", discarded.String())
		e.claimSet(seat, chowClaim.seat, discarded, chowClaim.meld[0])
		return outcomeClaimed
	default:
		return outcomeNone
	}
}

// claimKong lets claimantSeat upgrade three concealed copies plus
// fromSeat's discard into a kong, then opens the replacement-draw state.
func (e *GameEngine) claimKong(fromSeat, claimantSeat int, discarded Tile) {
	claimant := e.State.Player(claimantSeat)
	claimant.RemoveTiles([]Tile{discarded, discarded, discarded})
	m := newKong(discarded)
	m.From = fromSeat + 1
	claimant.AddMeld(m)
	e.popLastDiscard(fromSeat)

	if e.State.Kong {
		e.State.DoubleKong = true
	}
	e.State.Kong = true
	e.State.Discard = false
	e.State.CurrentPlayer = claimantSeat
}

// claimSet lets claimantSeat take fromSeat's discard to complete meld (a
// pung or chow), clears kong bookkeeping, and hands the turn over.
func (e *GameEngine) claimSet(fromSeat, claimantSeat int, discarded Tile, meld Meld) {
	claimant := e.State.Player(claimantSeat)

	needed := make([]Tile, 0, len(meld.Tiles)-1)
	takenDiscard := false
	for _, t := range meld.Tiles {
		if !takenDiscard && t == discarded {
			takenDiscard = true
			continue
		}
		needed = append(needed, t)
	}
	claimant.RemoveTiles(needed)

	m := meld
	m.From = fromSeat + 1
	claimant.AddMeld(m)
	e.popLastDiscard(fromSeat)

	e.State.Kong, e.State.DoubleKong = false, false
	e.State.Discard = true
	e.State.CurrentPlayer = claimantSeat
}

// popLastDiscard removes seat's most recent discard, the single
// exception to discards being append-only.
func (e *GameEngine) popLastDiscard(seat int) {
	discarder := e.State.Player(seat)
	if n := len(discarder.Discards); n > 0 {
		discarder.Discards = discarder.Discards[:n-1]
	}
}

// finishWin records the terminal winning state.
func (e *GameEngine) finishWin(seat int, ctx *HandContext, melds []Meld) {
	gs := e.State
	gs.Done = true
	gs.Winner = seat
	gs.WinningHandState = ctx
	gs.WinningMelds = melds
	gs.FinalFaan = e.Scorer.Score(melds, ctx)
	log.Debug("win", "game", e.ID, "seat", seat, "faan", gs.FinalFaan, "conditions", ctx.WinCondition)
}

// NextSeatBy returns the seat offset positions after seat.
func NextSeatBy(seat, offset int) int {
	return (seat + offset) % 4
}
