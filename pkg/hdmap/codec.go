package hdmap

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/hdmap/viewer/pkg/flatbuffers/hdmap/msg"
	"github.com/hdmap/viewer/pkg/geometry"
)

// ErrMalformedMap is returned when a buffer does not hold a readable map.
var ErrMalformedMap = errors.New("malformed map buffer")

// minMapBufferSize is the root offset plus an empty vtable and table.
const minMapBufferSize = 12

// EncodeMap serializes m into a finished FlatBuffers buffer.
func EncodeMap(m *Map) []byte {
	builder := flatbuffers.NewBuilder(1024)
	if m == nil {
		m = &Map{}
	}

	roads := make([]flatbuffers.UOffsetT, len(m.Roads))
	for i, road := range m.Roads {
		roads[i] = buildRoad(builder, road)
	}
	msg.MapStartRoadsVector(builder, len(roads))
	for i := len(roads) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(roads[i])
	}
	roadVec := builder.EndVector(len(roads))

	msg.MapStart(builder)
	msg.MapAddStampNs(builder, m.StampNs)
	msg.MapAddRoads(builder, roadVec)
	msg.FinishMapBuffer(builder, msg.MapEnd(builder))
	return builder.FinishedBytes()
}

func buildRoad(b *flatbuffers.Builder, road Road) flatbuffers.UOffsetT {
	sections := make([]flatbuffers.UOffsetT, len(road.Sections))
	for i, section := range road.Sections {
		sections[i] = buildSection(b, section)
	}
	id := b.CreateString(road.ID)
	msg.RoadStartSectionsVector(b, len(sections))
	for i := len(sections) - 1; i >= 0; i-- {
		b.PrependUOffsetT(sections[i])
	}
	vec := b.EndVector(len(sections))

	msg.RoadStart(b)
	msg.RoadAddId(b, id)
	msg.RoadAddSections(b, vec)
	return msg.RoadEnd(b)
}

func buildSection(b *flatbuffers.Builder, section Section) flatbuffers.UOffsetT {
	lanes := make([]flatbuffers.UOffsetT, len(section.Lanes))
	for i, lane := range section.Lanes {
		lanes[i] = buildLane(b, lane)
	}
	id := b.CreateString(section.ID)
	msg.SectionStartLanesVector(b, len(lanes))
	for i := len(lanes) - 1; i >= 0; i-- {
		b.PrependUOffsetT(lanes[i])
	}
	vec := b.EndVector(len(lanes))

	msg.SectionStart(b)
	msg.SectionAddId(b, id)
	msg.SectionAddLanes(b, vec)
	return msg.SectionEnd(b)
}

func buildLane(b *flatbuffers.Builder, lane Lane) flatbuffers.UOffsetT {
	central := buildCurve(b, lane.CentralCurve)
	left := buildCurve(b, lane.LeftBoundary)
	right := buildCurve(b, lane.RightBoundary)
	id := b.CreateString(lane.ID)

	msg.LaneStart(b)
	msg.LaneAddId(b, id)
	msg.LaneAddCentralCurve(b, central)
	msg.LaneAddLeftBoundary(b, left)
	msg.LaneAddRightBoundary(b, right)
	return msg.LaneEnd(b)
}

func buildCurve(b *flatbuffers.Builder, c Curve) flatbuffers.UOffsetT {
	msg.CurveStartPointsVector(b, len(c))
	for i := len(c) - 1; i >= 0; i-- {
		msg.CreateVec3(b, c[i].X, c[i].Y, c[i].Z)
	}
	points := b.EndVector(len(c))

	msg.CurveStart(b)
	msg.CurveAddPoints(b, points)
	return msg.CurveEnd(b)
}

// DecodeMap reads a FlatBuffers map. The result shares nothing with buf.
// Truncated or corrupt input yields ErrMalformedMap instead of a panic.
func DecodeMap(buf []byte) (m *Map, err error) {
	if len(buf) < minMapBufferSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedMap, len(buf))
	}
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("%w: %v", ErrMalformedMap, r)
		}
	}()

	root := msg.GetRootAsMap(buf, 0)
	out := &Map{
		StampNs: root.StampNs(),
		Roads:   make([]Road, boundedLen(root.RoadsLength(), 4, buf)),
	}

	var road msg.Road
	var section msg.Section
	var lane msg.Lane
	for i := range out.Roads {
		root.Roads(&road, i)
		r := Road{ID: string(road.Id()), Sections: make([]Section, boundedLen(road.SectionsLength(), 4, buf))}
		for j := range r.Sections {
			road.Sections(&section, j)
			s := Section{ID: string(section.Id()), Lanes: make([]Lane, boundedLen(section.LanesLength(), 4, buf))}
			for k := range s.Lanes {
				section.Lanes(&lane, k)
				s.Lanes[k] = Lane{
					ID:            string(lane.Id()),
					CentralCurve:  readCurve(lane.CentralCurve(nil)),
					LeftBoundary:  readCurve(lane.LeftBoundary(nil)),
					RightBoundary: readCurve(lane.RightBoundary(nil)),
				}
			}
			r.Sections[j] = s
		}
		out.Roads[i] = r
	}
	return out, nil
}

func readCurve(c *msg.Curve) Curve {
	if c == nil {
		return nil
	}
	n := c.PointsLength()
	out := make(Curve, boundedLen(n, 24, c.Table().Bytes))
	var v msg.Vec3
	for i := 0; i < n; i++ {
		c.Points(&v, i)
		out[i] = geometry.Point3{X: v.X(), Y: v.Y(), Z: v.Z()}
	}
	return out
}

// boundedLen rejects vector lengths that cannot fit in buf, so a corrupt
// length never turns into a huge allocation.
func boundedLen(n, elemSize int, buf []byte) int {
	if n < 0 || n > len(buf)/elemSize {
		panic(fmt.Sprintf("vector of %d elements does not fit in %d bytes", n, len(buf)))
	}
	return n
}
