package audioserver

import "math"

// Point2 is a position in the installation plane, in metres.
type Point2 struct {
	X, Y float64
}

func (p Point2) Add(o Point2) Point2 { return Point2{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Point2) Distance(o Point2) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }

// ChannelPoint returns the emission point of channel index of a sound with
// total channels located at sound. A mono sound emits from its own position;
// wider sounds spread their channels evenly on a circle of radius spread,
// starting at the angle radians.
func ChannelPoint(sound Point2, index, total int, spread float64, radians float32) Point2 {
	if total <= 1 {
		return sound
	}
	phase := float64(index) / float64(total)
	angle := float64(radians) + phase*2*math.Pi
	return sound.Add(radMagToXY(angle, spread))
}

func radMagToXY(radians, mag float64) Point2 {
	return Point2{X: math.Cos(radians) * mag, Y: math.Sin(radians) * mag}
}
