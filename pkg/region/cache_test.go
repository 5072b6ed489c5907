package region

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheIsEmpty(t *testing.T) {
	c := NewCache()

	assert.Equal(t, Snapshot{}, c.Read())
	_, ok := c.ReadForDisplay()
	assert.False(t, ok)
	assert.Zero(t, c.Updates())
}

func TestUpdateThenRead(t *testing.T) {
	c := NewCache()
	s := Snapshot{ID: "L7", Point: Point2{X: 1, Y: 2}, Heading: 0.5}

	c.Update(s)

	assert.Equal(t, s, c.Read())
	got, ok := c.ReadForDisplay()
	require.True(t, ok)
	assert.Equal(t, s, got)
	assert.Equal(t, uint64(1), c.Updates())
}

func TestUpdateWithEmptyIDHidesRegion(t *testing.T) {
	c := NewCache()
	c.Update(Snapshot{ID: "L7"})
	c.Update(Snapshot{Point: Point2{X: 3}})

	_, ok := c.ReadForDisplay()
	assert.False(t, ok)
	assert.Equal(t, 3.0, c.Read().Point.X)
}

func TestReadReturnsCopy(t *testing.T) {
	c := NewCache()
	c.Update(Snapshot{ID: "a"})

	s := c.Read()
	s.ID = "mutated"

	assert.Equal(t, "a", c.Read().ID)
}

// Writers use disjoint ids and every snapshot has X == Y == Heading, so a torn
// read shows up as a mismatch or as an id nobody wrote.
func TestConcurrentReadersNeverSeeTornSnapshot(t *testing.T) {
	const (
		writers   = 4
		perWriter = 2000
		readers   = 4
	)
	c := NewCache()
	var written sync.Map
	var writersWG, readersWG sync.WaitGroup
	stop := make(chan struct{})

	snapshotFor := func(w, i int) Snapshot {
		v := float64(w*perWriter + i)
		return Snapshot{ID: fmt.Sprintf("w%d_lane_%d", w, i), Point: Point2{X: v, Y: v}, Heading: v}
	}

	for w := 0; w < writers; w++ {
		writersWG.Add(1)
		go func(w int) {
			defer writersWG.Done()
			for i := 1; i <= perWriter; i++ {
				s := snapshotFor(w, i)
				written.Store(s.ID, s)
				c.Update(s)
			}
		}(w)
	}

	errs := make(chan string, readers)
	for r := 0; r < readers; r++ {
		readersWG.Add(1)
		go func() {
			defer readersWG.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s, ok := c.ReadForDisplay()
				if !ok {
					continue
				}
				want, found := written.Load(s.ID)
				if !found || want.(Snapshot) != s || s.Point.X != s.Point.Y || s.Point.X != s.Heading {
					errs <- fmt.Sprintf("torn snapshot %+v", s)
					return
				}
			}
		}()
	}

	writersWG.Wait()
	close(stop)
	readersWG.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
	assert.Equal(t, uint64(writers*perWriter), c.Updates())

	last := c.Read()
	want, found := written.Load(last.ID)
	require.True(t, found, "final snapshot %q was never written", last.ID)
	assert.Equal(t, want.(Snapshot), last)
}

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"id":"lane_3","point":{"x":10.5,"y":-2},"heading":1.57}`))
	require.NoError(t, err)
	assert.Equal(t, Snapshot{ID: "lane_3", Point: Point2{X: 10.5, Y: -2}, Heading: 1.57}, s)

	_, err = DecodeSnapshot([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
