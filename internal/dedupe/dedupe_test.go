package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id      int64
	ordinal int64
	seen    *time.Time
}

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func latest(rows []row) []row {
	return Latest(rows,
		func(r row) int64 { return r.id },
		func(r row) *time.Time { return r.seen },
		func(r row) int64 { return r.ordinal },
	)
}

func TestLatestKeepsMostRecentPerKey(t *testing.T) {
	rows := []row{
		{id: 29466, ordinal: 1, seen: ts("2023-01-01")},
		{id: 29466, ordinal: 2, seen: ts("2023-06-01")},
		{id: 29467, ordinal: 3, seen: ts("2023-03-01")},
	}

	got := latest(rows)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ordinal, "key 29466 keeps the 2023-06-01 row")
	assert.Equal(t, int64(3), got[1].ordinal)
}

func TestLatestTieBreaksOnLowestOrdinal(t *testing.T) {
	rows := []row{
		{id: 1, ordinal: 5, seen: ts("2023-06-01")},
		{id: 1, ordinal: 2, seen: ts("2023-06-01")},
	}

	got := latest(rows)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ordinal)
}

func TestLatestNilRecencyLosesToAnyDate(t *testing.T) {
	rows := []row{
		{id: 1, ordinal: 1, seen: nil},
		{id: 1, ordinal: 2, seen: ts("2020-01-01")},
	}

	got := latest(rows)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ordinal)
}

func TestLatestAllNilRecencyKeepsFirstArrival(t *testing.T) {
	rows := []row{
		{id: 1, ordinal: 7, seen: nil},
		{id: 1, ordinal: 3, seen: nil},
	}

	got := latest(rows)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ordinal)
}

func TestLatestOutputOrderIsDeterministic(t *testing.T) {
	rows := []row{
		{id: 3, ordinal: 9, seen: ts("2023-01-01")},
		{id: 1, ordinal: 4, seen: ts("2023-01-01")},
		{id: 2, ordinal: 6, seen: ts("2023-01-01")},
	}

	first := latest(rows)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, latest(rows))
	}
	assert.Equal(t, []int64{4, 6, 9}, []int64{first[0].ordinal, first[1].ordinal, first[2].ordinal})
}
