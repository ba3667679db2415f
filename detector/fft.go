package detector

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// DefaultWindowLen is the number of samples each FftDetector keeps.
const DefaultWindowLen = 1024

type (
	// Planner owns the planned transform and the scratch buffers used to
	// compute the spectrum of any FftDetector with the same window length.
	// One Planner is shared by all detectors of a render model.
	Planner struct {
		windowLen int
		forward   func(dst []complex128, src []float64)
		window    []float64    // window weighting function
		in        []float64    // windowed, unrolled samples
		out       []complex128 // spectrum, windowLen/2+1 bins
	}

	// FftDetector keeps a rolling window of the most recent samples.
	FftDetector struct {
		ring ringBuffer
	}

	// ringBuffer is a fixed-length buffer where cursor points at the most
	// recently written value.
	ringBuffer struct {
		buffer []float32
		cursor int
	}
)

// NewPlanner plans a real FFT of windowLen points, which must be a power of
// two.
func NewPlanner(windowLen int) (*Planner, error) {
	if windowLen < 2 || windowLen&(windowLen-1) != 0 {
		return nil, fmt.Errorf("fft window length %d is not a power of two", windowLen)
	}
	plan, err := algofft.NewPlanReal64(windowLen)
	if err != nil {
		return nil, fmt.Errorf("cannot plan fft of %d points: %w", windowLen, err)
	}
	p := &Planner{
		windowLen: windowLen,
		forward:   func(dst []complex128, src []float64) { plan.Forward(dst, src) },
		window:    make([]float64, windowLen),
		in:        make([]float64, windowLen),
		out:       make([]complex128, windowLen/2+1),
	}
	for i := range p.window {
		// Hanning window
		p.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(windowLen-1)))
	}
	return p, nil
}

func (p *Planner) WindowLen() int { return p.windowLen }

func NewFftDetector(windowLen int) FftDetector {
	return FftDetector{ring: ringBuffer{buffer: make([]float32, windowLen)}}
}

// Push shifts sample into the window, dropping the oldest one.
func (d *FftDetector) Push(sample float32) {
	d.ring.writeWrapSingle(sample)
}

// CalcFFT windows the current samples, oldest first, transforms them with p
// and writes windowLen/2 squared magnitudes into out. The DC bin is out[0].
// A detector whose window does not match the planner yields silence.
func (d *FftDetector) CalcFFT(p *Planner, out []float32) {
	n := p.windowLen
	if len(d.ring.buffer) != n {
		clear(out)
		return
	}
	d.ring.unroll(p.in)
	for i := range p.in {
		p.in[i] *= p.window[i]
	}
	p.forward(p.out, p.in)
	for k := range out[:n/2] {
		re, im := real(p.out[k]), imag(p.out[k])
		out[k] = float32(re*re + im*im)
	}
}

func (d *FftDetector) Reset() {
	clear(d.ring.buffer)
	d.ring.cursor = 0
}

func (r *ringBuffer) writeWrapSingle(value float32) {
	r.cursor = (r.cursor + 1) % len(r.buffer)
	r.buffer[r.cursor] = value
}

// unroll copies the ring into dst in chronological order, oldest first.
func (r *ringBuffer) unroll(dst []float64) {
	n := len(r.buffer)
	for i := range n {
		dst[i] = float64(r.buffer[(r.cursor+1+i)%n])
	}
}
