package drawpile

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eligibleItems returns the eligible items, sorted.
func eligibleItems(p *Pile[int]) []int {
	var out []int
	for _, i := range p.Eligible() {
		out = append(out, p.At(i))
	}
	sort.Ints(out)
	return out
}

func popAll(p *Pile[int], rng *rand.Rand) []int {
	var out []int
	for p.Len() > 0 {
		out = append(out, p.Pop(rng))
	}
	return out
}

func TestNew_NormalAllEligible(t *testing.T) {
	p := New(nil, []int{1, 2, 3})
	assert.Equal(t, []int{1, 2, 3}, eligibleItems(p))

	got := p.Pop(rand.New(rand.NewSource(1)))
	var rest []int
	for _, v := range []int{1, 2, 3} {
		if v != got {
			rest = append(rest, v)
		}
	}
	assert.Equal(t, rest, eligibleItems(p))
}

func TestNew_PriorityGroup(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := New([]int{4, 5}, []int{1, 2, 3})
		require.Equal(t, []int{4, 5}, eligibleItems(p))

		first := p.Pop(rng)
		require.Contains(t, []int{4, 5}, first)
		require.Equal(t, []int{9 - first}, eligibleItems(p))

		p.Pop(rng)
		require.Equal(t, []int{1, 2, 3}, eligibleItems(p))
	}
}

func TestPushTop_DrawsNewestFirst(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		p := New[int](nil, nil)
		p.PushTop(1)
		p.PushTop(2)
		p.PushTop(3)
		assert.Equal(t, []int{3, 2, 1}, popAll(p, rand.New(rand.NewSource(seed))))
	}
}

func TestPushBottom_DrawsOldestFirst(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		p := New[int](nil, nil)
		p.PushBottom(1)
		p.PushBottom(2)
		p.PushBottom(3)
		assert.Equal(t, []int{1, 2, 3}, popAll(p, rand.New(rand.NewSource(seed))))
	}
}

func TestPushTop_OverShuffledPile(t *testing.T) {
	p := New(nil, []int{1, 2, 3})
	p.PushTop(9)
	assert.Equal(t, []int{9}, eligibleItems(p))
	assert.Equal(t, 9, p.Pop(rand.New(rand.NewSource(3))))
	assert.Equal(t, []int{1, 2, 3}, eligibleItems(p))
}

func TestShuffleIn_EmptyPileIsEligible(t *testing.T) {
	p := New[int](nil, nil)
	p.ShuffleIn(7)
	assert.Equal(t, []int{7}, eligibleItems(p))
}

func TestShuffleIn_UnlocksAfterAnyCohortDraw(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := New(nil, []int{1, 2, 3})
		p.ShuffleIn(8)
		require.Equal(t, []int{1, 2, 3}, eligibleItems(p))

		p.Pop(rng)
		require.Contains(t, eligibleItems(p), 8)
	}
}

func TestShuffleIn_LaterItemsDoNotUnlock(t *testing.T) {
	p := New(nil, []int{1})
	p.ShuffleIn(8)
	p.PushTop(2) // not part of 8's cohort
	require.Equal(t, []int{2}, eligibleItems(p))

	p.Take(p.Index(func(v int) bool { return v == 2 }))
	// 8 is still locked: only 1 was present when it was shuffled in.
	assert.Equal(t, []int{1}, eligibleItems(p))
}

func TestTake_IgnoresEligibilityAndUnlocks(t *testing.T) {
	p := New(nil, []int{1, 2})
	p.ShuffleIn(5)
	p.PushBottom(6)

	// 6 waits on 1, 2 and 5; 5 waits for 1 or 2.
	require.Equal(t, []int{1, 2}, eligibleItems(p))

	got := p.Take(p.Index(func(v int) bool { return v == 6 }))
	assert.Equal(t, 6, got)
	assert.Equal(t, []int{1, 2}, eligibleItems(p))

	p.Take(p.Index(func(v int) bool { return v == 1 }))
	assert.Equal(t, []int{2, 5}, eligibleItems(p))
	assert.Equal(t, []int{2, 5}, p.Items())
}

func TestTake_LockedItemDropsItsLocks(t *testing.T) {
	p := New(nil, []int{1, 2})
	p.ShuffleIn(5)
	p.Take(p.Index(func(v int) bool { return v == 5 }))
	p.Take(0)
	assert.Equal(t, []int{2}, p.Items())
	assert.Equal(t, []int{2}, eligibleItems(p))
}

func TestShuffleAll_ClearsConstraints(t *testing.T) {
	p := New([]int{1}, []int{2})
	p.PushTop(3)
	p.PushBottom(4)
	p.ShuffleIn(5)
	p.ShuffleAll()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, eligibleItems(p))
}

func TestPop_EmptyPanics(t *testing.T) {
	p := New[int](nil, nil)
	assert.PanicsWithValue(t, "drawpile: pop from empty pile", func() {
		p.Pop(rand.New(rand.NewSource(1)))
	})
}

func TestPop_DeterministicForSeed(t *testing.T) {
	build := func() *Pile[int] {
		p := New([]int{10, 11}, []int{1, 2, 3, 4, 5, 6})
		p.ShuffleIn(20)
		p.PushBottom(30)
		return p
	}
	a := popAll(build(), rand.New(rand.NewSource(99)))
	b := popAll(build(), rand.New(rand.NewSource(99)))
	assert.Equal(t, a, b)
	assert.Len(t, a, 10)
}

func TestIndexAndAt(t *testing.T) {
	p := New(nil, []int{4, 5, 6})
	assert.Equal(t, 1, p.Index(func(v int) bool { return v == 5 }))
	assert.Equal(t, -1, p.Index(func(v int) bool { return v == 9 }))
	assert.Equal(t, 6, p.At(2))
	assert.True(t, p.IsEligible(0))
}

// refModel tracks the constraints a plain ordered list would impose.
type refModel struct {
	present  map[int]bool
	removed  map[int]bool
	before   map[int][]int // items that must leave before the key
	cohort   map[int][]int // shuffle-in: at least one must leave first
	inserted []int
}

func newRefModel() *refModel {
	return &refModel{
		present: map[int]bool{},
		removed: map[int]bool{},
		before:  map[int][]int{},
		cohort:  map[int][]int{},
	}
}

func (m *refModel) live() []int {
	var out []int
	for _, v := range m.inserted {
		if m.present[v] {
			out = append(out, v)
		}
	}
	return out
}

func (m *refModel) pushTop(x int) {
	for _, v := range m.live() {
		m.before[v] = append(m.before[v], x)
	}
	m.add(x)
}

func (m *refModel) pushBottom(x int) {
	m.before[x] = append(m.before[x], m.live()...)
	m.add(x)
}

func (m *refModel) shuffleIn(x int) {
	m.cohort[x] = m.live()
	m.add(x)
}

func (m *refModel) shuffleAll() {
	m.before = map[int][]int{}
	m.cohort = map[int][]int{}
}

func (m *refModel) add(x int) {
	m.present[x] = true
	m.inserted = append(m.inserted, x)
}

func (m *refModel) remove(x int) {
	delete(m.present, x)
	m.removed[x] = true
}

// allows reports whether the reference list permits x to be drawn now.
func (m *refModel) allows(x int) bool {
	for _, b := range m.before[x] {
		if !m.removed[b] {
			return false
		}
	}
	if c := m.cohort[x]; len(c) > 0 {
		for _, v := range c {
			if m.removed[v] {
				return true
			}
		}
		return false
	}
	return true
}

// TestRoundTrip_NeverViolatesReferenceOrder mirrors random operation
// sequences onto a constraint model and checks that nothing the pile
// reports eligible is forbidden by the model, and that the pile never
// stalls while non-empty.
func TestRoundTrip_NeverViolatesReferenceOrder(t *testing.T) {
	for seed := int64(0); seed < 300; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := New[int](nil, nil)
		m := newRefModel()
		next := 1
		for op := 0; op < 40; op++ {
			switch r := rng.Intn(10); {
			case r < 2:
				p.PushTop(next)
				m.pushTop(next)
				next++
			case r < 4:
				p.PushBottom(next)
				m.pushBottom(next)
				next++
			case r < 6:
				p.ShuffleIn(next)
				m.shuffleIn(next)
				next++
			case r < 7:
				p.ShuffleAll()
				m.shuffleAll()
			case r < 9:
				if p.Len() == 0 {
					continue
				}
				for _, i := range p.Eligible() {
					require.Truef(t, m.allows(p.At(i)), "seed %d: %d eligible too early", seed, p.At(i))
				}
				v := p.Pop(rng)
				m.remove(v)
			default:
				if p.Len() == 0 {
					continue
				}
				v := p.Take(rng.Intn(p.Len()))
				m.remove(v)
			}
			if p.Len() > 0 {
				require.NotEmptyf(t, p.Eligible(), "seed %d: pile stalled", seed)
			}
		}
		for p.Len() > 0 {
			for _, i := range p.Eligible() {
				require.True(t, m.allows(p.At(i)))
			}
			m.remove(p.Pop(rng))
		}
	}
}
