package arbiter

import (
	"math/rand"
	"testing"

	"dart-scorer/internal/board"
	"dart-scorer/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t20  = board.Score{Segment: 20, Multiplier: 3}
	s20  = board.Score{Segment: 20, Multiplier: 1}
	s5   = board.Score{Segment: 5, Multiplier: 1}
	bull = board.Score{Segment: 25, Multiplier: 2, Bull: true}
)

func vote(cam int, s board.Score) Vote {
	return Vote{Camera: cam, Found: true, Score: s, Position: geometry.Point2D{X: float64(cam), Y: -165}}
}

func TestMajorityWithMissingCamera(t *testing.T) {
	a := New(nil, 1)
	d, ok := a.Decide([]Vote{vote(0, t20), vote(1, t20), {Camera: 2}})
	require.True(t, ok)

	want := Decision{Score: t20, Camera: 0, Position: geometry.Point2D{X: 0, Y: -165}, Votes: 2}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Decide() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 60, d.Score.Value())
}

func TestMultiplierIsPartOfTheVote(t *testing.T) {
	a := New(nil, 1)
	d, ok := a.Decide([]Vote{vote(0, t20), vote(1, s20), vote(2, s20)})
	require.True(t, ok)
	assert.Equal(t, s20, d.Score)
	assert.Equal(t, 1, d.Camera)
}

func TestAllDisagreeUsesPriority(t *testing.T) {
	votes := []Vote{vote(0, t20), vote(1, s5), vote(2, bull)}

	d, ok := New([]int{2, 0, 1}, 1).Decide(votes)
	require.True(t, ok)
	assert.Equal(t, bull, d.Score)
	assert.Equal(t, 2, d.Camera)

	d, ok = New(nil, 1).Decide(votes)
	require.True(t, ok)
	assert.Equal(t, t20, d.Score)

	d, ok = New([]int{1}, 1).Decide(votes)
	require.True(t, ok)
	assert.Equal(t, s5, d.Score)
}

func TestMinVotes(t *testing.T) {
	votes := []Vote{vote(0, t20), vote(1, s5), vote(2, bull)}
	_, ok := New(nil, 2).Decide(votes)
	assert.False(t, ok)

	d, ok := New(nil, 2).Decide([]Vote{vote(0, s5), vote(1, t20), vote(2, t20)})
	require.True(t, ok)
	assert.Equal(t, t20, d.Score)
	assert.Equal(t, 1, d.Camera)
}

func TestNoFoundVotes(t *testing.T) {
	_, ok := New(nil, 1).Decide([]Vote{{Camera: 0}, {Camera: 1}})
	assert.False(t, ok)
	_, ok = New(nil, 1).Decide(nil)
	assert.False(t, ok)
}

func TestMissIsAValidVote(t *testing.T) {
	d, ok := New(nil, 1).Decide([]Vote{vote(0, board.Miss), vote(1, board.Miss), vote(2, t20)})
	require.True(t, ok)
	assert.True(t, d.Score.IsMiss())
}

func TestDecideIsOrderIndependent(t *testing.T) {
	votes := []Vote{vote(0, t20), vote(1, s5), vote(2, t20), vote(3, s5), vote(4, bull), {Camera: 5}}
	a := New([]int{3, 1}, 1)
	want, ok := a.Decide(votes)
	require.True(t, ok)
	// s5 and t20 tie on two votes each; camera 3 ranks first
	assert.Equal(t, s5, want.Score)
	assert.Equal(t, 3, want.Camera)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := append([]Vote(nil), votes...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, ok := a.Decide(shuffled)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
