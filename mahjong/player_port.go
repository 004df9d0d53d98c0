package mahjong

import "math/rand"

// MeldOptions is the offer set handed to a PlayerPort at a decision point.
// Win, when non-nil, is the highest-scoring decomposition available; Kong/
// Pung/Chow list the single-meld alternatives of each kind (chow may hold
// up to three candidates).
type MeldOptions struct {
	Win  []Meld
	Kong []Meld
	Pung []Meld
	Chow []Meld
}

// Empty reports whether none of the four option kinds has a candidate.
func (o MeldOptions) Empty() bool {
	return len(o.Win) == 0 && len(o.Kong) == 0 && len(o.Pung) == 0 && len(o.Chow) == 0
}

// MeldChoice is a PlayerPort's answer to QueryMeld. Kind is "" (pass) or
// one of "win", "kong", "pung", "chow"; Meld is the chosen candidate (for
// "win" it is the full decomposition).
type MeldChoice struct {
	Kind string
	Meld []Meld
}

var passChoice = MeldChoice{}

// PlayerPort is the contract the engine uses to reach an external decision
// agent — human, scripted, or randomized. Implementations are pure from
// the engine's perspective: they observe state and answer, never mutate.
type PlayerPort interface {
	// QueryMeld offers options and returns the agent's choice.
	QueryMeld(gs *GameState, seat int, options MeldOptions) MeldChoice
	// QueryDiscard asks which tile to discard. The returned index is into
	// the player's hand as currently ordered, unless sortedView is true,
	// in which case it is an index into the sorted view and is translated
	// back to the unsorted position before being used.
	QueryDiscard(gs *GameState, seat int, sortedView bool) int
}

// RandomPlayer decides uniformly at random among offered options, the Go
// analogue of an automated opponent: it always accepts a win, otherwise
// picks one of the remaining offered kinds (or passes) at random, and
// discards a uniformly random tile from hand.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer builds a RandomPlayer seeded independently of the wall.
func NewRandomPlayer(seed int64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) QueryMeld(gs *GameState, seat int, options MeldOptions) MeldChoice {
	if len(options.Win) > 0 {
		return MeldChoice{Kind: "win", Meld: options.Win}
	}
	type candidate struct {
		kind  string
		melds [][]Meld
	}
	pool := []candidate{
		{"kong", singles(options.Kong)},
		{"pung", singles(options.Pung)},
		{"chow", singles(options.Chow)},
	}
	var flat []MeldChoice
	for _, c := range pool {
		for _, m := range c.melds {
			flat = append(flat, MeldChoice{Kind: c.kind, Meld: m})
		}
	}
	if len(flat) == 0 {
		return passChoice
	}
	// Pass is as likely as any single concrete candidate.
	if p.rng.Intn(len(flat)+1) == len(flat) {
		return passChoice
	}
	return flat[p.rng.Intn(len(flat))]
}

func (p *RandomPlayer) QueryDiscard(gs *GameState, seat int, sortedView bool) int {
	hand := gs.Player(seat).Hand
	if len(hand) == 0 {
		return 0
	}
	// A uniform index is uniform in either view.
	return p.rng.Intn(len(hand))
}

// singles turns a flat meld list into a list of one-meld candidates.
func singles(melds []Meld) [][]Meld {
	out := make([][]Meld, 0, len(melds))
	for _, m := range melds {
		out = append(out, []Meld{m})
	}
	return out
}

// ScriptedPlayer replays a pre-recorded sequence of decisions — the
// deterministic analogue of a human player prompted at a terminal, used
// for reproducing a specific game or driving engine tests. Once the
// script is exhausted it behaves like a RandomPlayer fallback.
type ScriptedPlayer struct {
	melds    []MeldChoice
	discards []int
	meldPos  int
	discPos  int
	fallback *RandomPlayer
}

// NewScriptedPlayer builds a player that answers QueryMeld from melds and
// QueryDiscard from discards, in order, falling back to fallback once
// either sequence is exhausted.
func NewScriptedPlayer(melds []MeldChoice, discards []int, fallback *RandomPlayer) *ScriptedPlayer {
	return &ScriptedPlayer{melds: melds, discards: discards, fallback: fallback}
}

func (p *ScriptedPlayer) QueryMeld(gs *GameState, seat int, options MeldOptions) MeldChoice {
	if p.meldPos < len(p.melds) {
		choice := p.melds[p.meldPos]
		p.meldPos++
		return choice
	}
	return p.fallback.QueryMeld(gs, seat, options)
}

func (p *ScriptedPlayer) QueryDiscard(gs *GameState, seat int, sortedView bool) int {
	if p.discPos < len(p.discards) {
		idx := p.discards[p.discPos]
		p.discPos++
		return idx
	}
	return p.fallback.QueryDiscard(gs, seat, sortedView)
}
