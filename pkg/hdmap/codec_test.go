package hdmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmap/viewer/pkg/geometry"
)

func TestEncodeDecodeMap(t *testing.T) {
	m := &Map{
		StampNs: 1700000000123456789,
		Roads: []Road{{
			ID: "r1",
			Sections: []Section{{
				ID: "r1_s1",
				Lanes: []Lane{{
					ID:            "r1_s1_l1",
					CentralCurve:  Curve{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
					LeftBoundary:  Curve{{X: -1.5, Y: 0.25}},
					RightBoundary: Curve{},
				}},
			}},
		}},
	}

	got, err := DecodeMap(EncodeMap(m))
	require.NoError(t, err)

	assert.Equal(t, m.StampNs, got.StampNs)
	require.Len(t, got.Roads, 1)
	assert.Equal(t, "r1", got.Roads[0].ID)
	require.Len(t, got.Roads[0].Sections, 1)
	assert.Equal(t, "r1_s1", got.Roads[0].Sections[0].ID)
	require.Len(t, got.Roads[0].Sections[0].Lanes, 1)

	lane := got.Roads[0].Sections[0].Lanes[0]
	assert.Equal(t, "r1_s1_l1", lane.ID)
	assert.Equal(t, Curve{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}, lane.CentralCurve)
	assert.Equal(t, Curve{{X: -1.5, Y: 0.25}}, lane.LeftBoundary)
	assert.Empty(t, lane.RightBoundary)
}

func TestDecodeSyntheticGridFlattensTheSame(t *testing.T) {
	m := SyntheticGrid(DefaultGridOptions(), 7)

	decoded, err := DecodeMap(EncodeMap(m))
	require.NoError(t, err)

	assert.Equal(t, Flatten(m), Flatten(decoded))
}

func TestEncodeNilMapIsEmpty(t *testing.T) {
	got, err := DecodeMap(EncodeMap(nil))
	require.NoError(t, err)
	assert.Empty(t, got.Roads)
	assert.Empty(t, Flatten(got))
}

func TestDecodeMapRejectsShortBuffer(t *testing.T) {
	_, err := DecodeMap([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedMap)
}

func TestDecodeMapRejectsGarbage(t *testing.T) {
	garbage := make([]byte, 64)
	for i := range garbage {
		garbage[i] = 0xff
	}
	_, err := DecodeMap(garbage)
	assert.ErrorIs(t, err, ErrMalformedMap)
}

func TestDecodeMapDoesNotShareBuffer(t *testing.T) {
	buf := EncodeMap(&Map{Roads: []Road{{ID: "road", Sections: []Section{{Lanes: []Lane{{
		CentralCurve: Curve{{X: 9}},
	}}}}}}})
	m, err := DecodeMap(buf)
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 0
	}
	assert.Equal(t, "road", m.Roads[0].ID)
	assert.Equal(t, geometry.Point3{X: 9}, m.Roads[0].Sections[0].Lanes[0].CentralCurve[0])
}
