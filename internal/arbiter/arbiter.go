// Package arbiter merges per-camera scores into one authoritative result.
package arbiter

import (
	"dart-scorer/internal/board"
	"dart-scorer/pkg/geometry"
)

// Vote is one camera's opinion of a throw.
type Vote struct {
	Camera   int
	Found    bool
	Score    board.Score
	Position geometry.Point2D // board coordinates
}

// Decision is the arbitrated throw.
type Decision struct {
	Score    board.Score
	Camera   int              // camera whose position is reported
	Position geometry.Point2D // board coordinates
	Votes    int              // cameras agreeing on Score
}

// Arbiter runs a majority vote over full scores (segment, multiplier and
// bull flag). Ties go to the score backed by the highest-priority camera.
type Arbiter struct {
	priority []int
	rank     map[int]int
	minVotes int
}

// New builds an arbiter. priority lists camera indices from most to least
// trusted; cameras not listed rank after it in index order. A winning score
// with fewer than minVotes votes is rejected.
func New(priority []int, minVotes int) *Arbiter {
	if minVotes < 1 {
		minVotes = 1
	}
	a := &Arbiter{
		priority: append([]int(nil), priority...),
		rank:     make(map[int]int, len(priority)),
		minVotes: minVotes,
	}
	for i, cam := range priority {
		if _, dup := a.rank[cam]; !dup {
			a.rank[cam] = i
		}
	}
	return a
}

// rankOf orders cameras: listed ones by position, the rest after them by
// index.
func (a *Arbiter) rankOf(camera int) int {
	if r, ok := a.rank[camera]; ok {
		return r
	}
	return len(a.priority) + camera
}

type tally struct {
	count    int
	bestRank int
	best     Vote
}

// Decide returns the arbitrated throw; ok is false when no camera found the
// dart or the winner lacks the required votes.
func (a *Arbiter) Decide(votes []Vote) (Decision, bool) {
	tallies := make(map[board.Score]*tally)
	for _, v := range votes {
		if !v.Found {
			continue
		}
		r := a.rankOf(v.Camera)
		t, ok := tallies[v.Score]
		if !ok {
			tallies[v.Score] = &tally{count: 1, bestRank: r, best: v}
			continue
		}
		t.count++
		if r < t.bestRank {
			t.bestRank = r
			t.best = v
		}
	}

	var win *tally
	for _, t := range tallies {
		if win == nil || t.count > win.count || (t.count == win.count && t.bestRank < win.bestRank) {
			win = t
		}
	}
	if win == nil || win.count < a.minVotes {
		return Decision{}, false
	}
	return Decision{
		Score:    win.best.Score,
		Camera:   win.best.Camera,
		Position: win.best.Position,
		Votes:    win.count,
	}, true
}
