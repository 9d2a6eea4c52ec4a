package kyma

import "fmt"

// Resample takes a Streamer which is assumed to stream at the old sample rate and returns a
// Streamer which streams the same audio at the new sample rate.
//
// The quality argument specifies the quality of the resampling process. Higher quality implies
// worse performance. Values below 1 or above 64 are invalid and Resample will panic. Each output
// sample is a Lagrange polynomial through 2*quality neighbouring input samples; samples outside
// of the source count as silence.
//
// The returned Streamer propagates s's errors through Err.
func Resample(quality int, old, new SampleRate, s Streamer) *Resampler {
	if quality < 1 || 64 < quality {
		panic(fmt.Errorf("resample: invalid quality: %d", quality))
	}
	if old <= 0 || new <= 0 {
		panic(fmt.Errorf("resample: invalid sample rates: %d -> %d", old, new))
	}
	return &Resampler{
		s:       s,
		quality: quality,
		ratio:   float64(old) / float64(new),
		pts:     make([]point, quality*2),
	}
}

// Resampler is a Streamer created by Resample.
type Resampler struct {
	s       Streamer
	quality int
	ratio   float64 // old / new
	pos     int     // index of the next output sample
	data    [][2]float64
	off     int // source index of data[0]
	eof     bool
	pts     []point
}

type point struct {
	X, Y float64
}

// Stream streams the wrapped Streamer resampled.
func (r *Resampler) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		j := float64(r.pos) * r.ratio
		base := int(j)
		for !r.eof && r.off+len(r.data) <= base+r.quality {
			r.fill()
		}
		if r.eof && base >= r.off+len(r.data) {
			break
		}
		for c := range samples[n] {
			for k := range r.pts {
				l := base + k - len(r.pts)/2 + 1
				r.pts[k] = point{X: float64(l), Y: r.at(l, c)}
			}
			samples[n][c] = lagrange(r.pts, j)
		}
		n++
		r.pos++
		r.trim(base - r.quality + 1)
	}
	return n, n > 0
}

// Err propagates the wrapped Streamer's errors.
func (r *Resampler) Err() error {
	return r.s.Err()
}

func (r *Resampler) at(l, c int) float64 {
	i := l - r.off
	if l < 0 || i < 0 || i >= len(r.data) {
		return 0
	}
	return r.data[i][c]
}

func (r *Resampler) fill() {
	var tmp [512][2]float64
	sn, sok := r.s.Stream(tmp[:])
	r.data = append(r.data, tmp[:sn]...)
	if !sok {
		r.eof = true
	}
}

// trim drops source samples before index from, which no further output sample can reach.
func (r *Resampler) trim(from int) {
	drop := from - r.off
	if drop <= 0 {
		return
	}
	if drop > len(r.data) {
		drop = len(r.data)
	}
	r.data = r.data[drop:]
	r.off += drop
}

func lagrange(pts []point, x float64) (y float64) {
	y = 0.0
	for j := range pts {
		l := 1.0
		for m := range pts {
			if j == m {
				continue
			}
			l *= (x - pts[m].X) / (pts[j].X - pts[m].X)
		}
		y += pts[j].Y * l
	}
	return y
}
