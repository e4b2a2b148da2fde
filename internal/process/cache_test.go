package process

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReplaceAppliesActiveOrder(t *testing.T) {
	c := NewCache()
	c.SetOrder(SortByMemory, false)

	require.True(t, c.Replace(NewSnapshot(sample(), time.Now())))
	assert.Equal(t, []int32{20, 30, 10}, pidsOf(c.Records()))
	assert.Equal(t, 3, c.Len())
}

func TestCacheDefaultOrderIsName(t *testing.T) {
	c := NewCache()
	c.Replace(NewSnapshot(sample(), time.Now()))
	assert.Equal(t, []int32{20, 10, 30}, pidsOf(c.Records()))
}

func TestCacheDropsStaleSnapshot(t *testing.T) {
	c := NewCache()

	newer := NewSnapshot(sample()[:1], time.Now())
	newer.Seq = 5
	older := NewSnapshot(sample(), time.Now())
	older.Seq = 4

	require.True(t, c.Replace(newer))
	assert.False(t, c.Replace(older))
	assert.Equal(t, uint64(5), c.Seq())
	assert.Equal(t, 1, c.Len())
}

func TestCacheReplaceDoesNotAliasSnapshot(t *testing.T) {
	snap := NewSnapshot(sample(), time.Now())
	c := NewCache()
	c.Replace(snap)
	c.Sort(SortByPID)

	assert.Equal(t, int32(30), snap.Records[0].PID, "sorting the cache leaves the snapshot untouched")
}

func TestCacheLookupAfterSort(t *testing.T) {
	c := NewCache()
	c.Replace(NewSnapshot(sample(), time.Now()))
	c.Sort(SortByCPU)

	r, ok := c.Lookup(20)
	require.True(t, ok)
	assert.Equal(t, "apache", r.Name)

	_, ok = c.Lookup(99)
	assert.False(t, ok)
}

func TestCacheViewDoesNotFetchOrMutate(t *testing.T) {
	c := NewCache()
	c.Replace(NewSnapshot(sample(), time.Now()))

	q, err := ParseQuery("10,30")
	require.NoError(t, err)

	assert.Equal(t, []int32{10, 30}, pidsOf(c.View(q)))
	assert.Equal(t, 3, c.Len())
}

func TestNewSnapshotDeduplicatesAndOwnsIcons(t *testing.T) {
	icon := &Icon{Glyph: "■", Kind: "system"}
	snap := NewSnapshot([]Record{
		{PID: 1, Name: "a", Exe: "/bin/a", Icon: icon},
		{PID: 1, Name: "dup"},
		{PID: 2, Name: "b", Exe: "/bin/a", Icon: icon},
	}, time.Now())

	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, 1, snap.IconCount())
}

func TestCacheRecordsAfterResort(t *testing.T) {
	c := NewCache()
	c.Replace(NewSnapshot(sample(), time.Now()))
	c.Sort(SortByCPU)
	c.Sort(SortByCPU)

	want := sample()
	SortRecords(want, SortByName, true)
	SortRecords(want, SortByCPU, true)
	SortRecords(want, SortByCPU, false)
	if diff := cmp.Diff(want, c.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}
