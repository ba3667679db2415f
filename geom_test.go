package audioserver_test

import (
	"math"
	"testing"

	"github.com/soundscape-lab/audioserver"
)

const epsilon = 1e-6

func TestChannelPointMonoIsSoundPosition(t *testing.T) {
	pos := audioserver.Point2{X: 3.5, Y: -2}
	for _, spread := range []float64{0, 1, 10} {
		for _, radians := range []float32{0, 1, math.Pi, -4} {
			got := audioserver.ChannelPoint(pos, 0, 1, spread, radians)
			if got != pos {
				t.Errorf("ChannelPoint(spread %v, radians %v) = %v, want %v", spread, radians, got, pos)
			}
		}
	}
}

func TestChannelPointsEvenlySpread(t *testing.T) {
	pos := audioserver.Point2{X: 1, Y: 2}
	for _, total := range []int{2, 3, 4, 8} {
		for _, radians := range []float32{0, 0.3, -2.1} {
			const spread = 1.5
			points := make([]audioserver.Point2, total)
			for i := range points {
				points[i] = audioserver.ChannelPoint(pos, i, total, spread, radians)
				if d := points[i].Distance(pos); math.Abs(d-spread) > epsilon {
					t.Fatalf("total %d: channel %d at distance %v, want %v", total, i, d, spread)
				}
			}
			// neighbouring points subtend 2π/total at the centre
			want := 2 * spread * math.Sin(math.Pi/float64(total))
			for i := range points {
				next := points[(i+1)%total]
				if d := points[i].Distance(next); math.Abs(d-want) > epsilon {
					t.Errorf("total %d: chord %d->%d = %v, want %v", total, i, (i+1)%total, d, want)
				}
			}
		}
	}
}

func TestChannelPointRotation(t *testing.T) {
	got := audioserver.ChannelPoint(audioserver.Point2{}, 0, 2, 1, math.Pi/2)
	if math.Abs(got.X) > epsilon || math.Abs(got.Y-1) > epsilon {
		t.Errorf("first channel rotated by π/2 = %v, want (0, 1)", got)
	}
	got = audioserver.ChannelPoint(audioserver.Point2{}, 1, 2, 1, 0)
	if math.Abs(got.X+1) > epsilon || math.Abs(got.Y) > epsilon {
		t.Errorf("second of two channels = %v, want (-1, 0)", got)
	}
}
