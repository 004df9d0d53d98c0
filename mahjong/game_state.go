package mahjong

// Phase names where the turn pointer currently sits within Step.
type Phase int

const (
	PhaseDraw Phase = iota
	PhaseSelfAction
	PhaseDiscard
	PhaseReaction
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseSelfAction:
		return "self_action"
	case PhaseDiscard:
		return "discard"
	case PhaseReaction:
		return "reaction"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// WinTag names a scoring circumstance contributed by how the game reached
// a win, as opposed to the winning hand's own structure.
type WinTag string

const (
	TagSelfPick        WinTag = "self_pick"
	TagConcealedHand   WinTag = "concealed_hand"
	TagRobKong         WinTag = "rob_kong"
	TagLastDraw        WinTag = "last_draw"
	TagWinByKong       WinTag = "win_by_kong"
	TagWinByDoubleKong WinTag = "win_by_double_kong"
	TagHeavenlyHand    WinTag = "heavenly_hand"
	TagEarthlyHand     WinTag = "earthly_hand"
	// TagWinByDiscard marks a win claimed off another seat's discard. It
	// carries no faan of its own (absent from the FAAN table) but is
	// still stamped for observability, matching the source's bookkeeping.
	TagWinByDiscard WinTag = "win_by_discard"
)

// HandContext is the Scorer's non-structural input: the circumstances
// under which the winning tile arrived, plus the two special-hand flags
// that bypass ordinary structural decomposition.
type HandContext struct {
	WinCondition    map[WinTag]bool
	ThirteenOrphans bool
	NineGates       bool
	SeatWind        WindValue
	RoundWind       WindValue
}

// NewHandContext builds an empty context for the given seat/round winds.
func NewHandContext(seatWind, roundWind WindValue) *HandContext {
	return &HandContext{
		WinCondition: make(map[WinTag]bool),
		SeatWind:     seatWind,
		RoundWind:    roundWind,
	}
}

func (c *HandContext) set(tag WinTag) {
	c.WinCondition[tag] = true
}

func (c *HandContext) has(tag WinTag) bool {
	return c.WinCondition[tag]
}

// GameState holds everything Step needs across calls: the wall, the four
// seats, whose turn it is, the round wind, and the flag discipline
// governing first-turn/kong/discard/terminal bookkeeping.
type GameState struct {
	Wall          *Wall
	RoundWind     WindValue
	CurrentPlayer int
	Players       [4]*PlayerState
	Phase         Phase

	// First is true only for the dealer's very first, untouched draw —
	// the precondition for the heavenly-hand (and, for a non-dealer's
	// first discard claim, earthly-hand) win tags.
	First bool
	// Discard is true when the current player has just acquired a tile via
	// a claimed set (pung/chow) rather than a wall draw, and so must not
	// draw again before acting this turn.
	Discard bool
	// Kong is set when the current player's next tile is a replacement: after
	// a flower is drawn, or after a self-declared or claimed kong. It enables
	// the win_by_kong/win_by_double_kong tags and is cleared when a discard
	// goes unclaimed or a pung/chow is claimed.
	Kong bool
	// DoubleKong is set when a kong is formed while Kong is already set, and
	// is cleared together with Kong.
	DoubleKong bool
	// Draw is true once the wall is exhausted with no winner.
	Draw bool
	// Done is true once the game has reached any terminal state.
	Done bool

	// Winner is the seat that won, or -1 if the game is not over or ended
	// in a drawn wall.
	Winner int
	// WinningHandState records the HandContext used to score the win.
	WinningHandState *HandContext
	// WinningMelds records the scored decomposition, when Winner >= 0.
	WinningMelds []Meld
	// FinalFaan records the winner's scored faan total.
	FinalFaan int
}

// NewGameState deals a fresh 144-tile wall to four players seated in
// East/South/West/North order, with dealerSeat holding East.
func NewGameState(seed int64, roundWind WindValue, dealerSeat int) *GameState {
	wall := NewWall(seed)
	gs := &GameState{
		Wall:          wall,
		RoundWind:     roundWind,
		CurrentPlayer: dealerSeat,
		Phase:         PhaseDraw,
		First:         true,
		Winner:        -1,
	}
	winds := [4]WindValue{East, South, West, North}
	for i := 0; i < 4; i++ {
		seat := (dealerSeat + i) % 4
		gs.Players[seat] = NewPlayerState(seat, winds[i])
	}
	for i := 0; i < 4; i++ {
		seat := (dealerSeat + i) % 4
		count := 13
		if seat == dealerSeat {
			count = 14
		}
		for n := 0; n < count; n++ {
			t, ok := gs.drawReplacingFlowers(seat)
			if !ok {
				break
			}
			gs.Players[seat].AddTile(t)
		}
	}
	return gs
}

// drawReplacingFlowers pops the next tile for seat off the wall, auto-melding
// any flower tiles drawn along the way into singleton melds and opening the
// kong (win-by-replacement) path for each one. Dealing pops from the same
// tail a mid-game draw does, so the initial deal and GameEngine's in-turn
// draws share this one flower-replacement loop.
func (gs *GameState) drawReplacingFlowers(seat int) (Tile, bool) {
	player := gs.Player(seat)
	for {
		tile, ok := gs.Wall.Draw()
		if !ok {
			return Tile{}, false
		}
		if tile.Suit == Flower {
			player.AddMeld(newSingleton(tile))
			gs.Kong = true
			continue
		}
		return tile, true
	}
}

// Player returns the state for seat, or nil if seat is out of range.
func (gs *GameState) Player(seat int) *PlayerState {
	if seat < 0 || seat > 3 {
		return nil
	}
	return gs.Players[seat]
}

// NextSeat returns the seat immediately after seat in turn order.
func NextSeat(seat int) int {
	return (seat + 1) % 4
}
