package kyma

// Silence returns a Streamer which streams n samples of silence. If n is negative, silence is
// streamed forever.
func Silence(n int) Streamer {
	return &silence{remains: n}
}

type silence struct {
	remains int // negative means endless
}

func (s *silence) Stream(samples [][2]float64) (n int, ok bool) {
	if s.remains == 0 {
		return 0, false
	}
	if s.remains > 0 && len(samples) > s.remains {
		samples = samples[:s.remains]
	}
	for i := range samples {
		samples[i] = [2]float64{}
	}
	if s.remains > 0 {
		s.remains -= len(samples)
	}
	return len(samples), true
}

func (*silence) Err() error {
	return nil
}

// Callback returns a Streamer which streams no samples. The first time it is asked to stream it
// calls f, which makes it a completion signal at the end of a Seq.
func Callback(f func()) Streamer {
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if f != nil {
			f()
			f = nil
		}
		return 0, false
	})
}
