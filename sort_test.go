package linkedqueue

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/linkedqueue/internal/list"
)

func TestSortDegenerate(t *testing.T) {
	q, _ := newTestQueue(t)
	q.Sort()
	assert.Nil(t, q.Values())

	require.True(t, q.InsertTail("only"))
	q.Sort()
	assert.Equal(t, []string{"only"}, q.Values())
	require.NoError(t, q.Validate())
}

func TestSortAscending(t *testing.T) {
	q, _ := newTestQueue(t, "pear", "Apple", "apple", "fig", "", "banana", "apple")

	q.Sort()

	assert.Equal(t, []string{"", "Apple", "apple", "apple", "banana", "fig", "pear"}, q.Values())
	require.NoError(t, q.Validate())
}

func TestSortIsStable(t *testing.T) {
	q, _ := newTestQueue(t, "b", "a", "b", "a")
	var before []*Element
	for l := range list.Each(&q.head) {
		before = append(before, l.Entry())
	}

	q.Sort()

	var after []*Element
	for l := range list.Each(&q.head) {
		after = append(after, l.Entry())
	}
	require.Len(t, after, 4)
	assert.Same(t, before[1], after[0])
	assert.Same(t, before[3], after[1])
	assert.Same(t, before[0], after[2])
	assert.Same(t, before[2], after[3])
}

func randomValues(rnd *rand.Rand, n, distinct int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = strconv.Itoa(rnd.IntN(distinct))
	}
	return values
}

func TestSortRandom(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 30; round++ {
		input := randomValues(rnd, rnd.IntN(300), 40)
		q, tr := newTestQueue(t, input...)
		live := tr.Live()

		q.Sort()

		got := q.Values()
		require.Len(t, got, len(input))
		for i := 1; i < len(got); i++ {
			require.LessOrEqual(t, got[i-1], got[i])
		}
		want := slices.Clone(input)
		slices.Sort(want)
		if len(want) == 0 {
			want = nil
		}
		require.Equal(t, want, got)
		require.Equal(t, live, tr.Live())
		require.NoError(t, q.Validate())
	}
}

func TestSortThenDeleteDupKeepsUniqueValues(t *testing.T) {
	rnd := rand.New(rand.NewPCG(9, 13))
	for round := 0; round < 20; round++ {
		input := randomValues(rnd, rnd.IntN(100), 60)
		q, _ := newTestQueue(t, input...)

		q.Sort()
		require.True(t, q.DeleteDup())

		counts := make(map[string]int)
		for _, v := range input {
			counts[v]++
		}
		var want []string
		for v, n := range counts {
			if n == 1 {
				want = append(want, v)
			}
		}
		slices.Sort(want)

		require.Equal(t, want, q.Values())
		require.NoError(t, q.Validate())
	}
}
