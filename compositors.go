package kyma

// Take returns a Streamer which streams at most n samples from s.
//
// The returned Streamer propagates s's errors through Err.
func Take(n int, s Streamer) Streamer {
	return &take{s: s, remains: n}
}

type take struct {
	s       Streamer
	remains int
}

func (t *take) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remains <= 0 {
		return 0, false
	}
	if len(samples) > t.remains {
		samples = samples[:t.remains]
	}
	n, ok = t.s.Stream(samples)
	t.remains -= n
	return n, ok
}

func (t *take) Err() error {
	return t.s.Err()
}

// Loop takes a StreamSeeker and plays it count times. If count is negative, s is looped
// infinitely.
//
// The returned Streamer propagates s's errors.
func Loop(count int, s StreamSeeker) Streamer {
	return &loop{s: s, remains: count}
}

type loop struct {
	s       StreamSeeker
	remains int
}

func (l *loop) Stream(samples [][2]float64) (n int, ok bool) {
	if l.remains == 0 || l.s.Err() != nil || l.s.Len() == 0 {
		return 0, false
	}
	for len(samples) > 0 {
		sn, sok := l.s.Stream(samples)
		if !sok {
			if l.remains > 0 {
				l.remains--
			}
			if l.remains == 0 {
				break
			}
			if err := l.s.Seek(0); err != nil {
				break
			}
			continue
		}
		samples = samples[sn:]
		n += sn
	}
	return n, n > 0 || l.remains != 0
}

func (l *loop) Err() error {
	return l.s.Err()
}

// Seq takes zero or more Streamers and returns a Streamer which streams them one by one
// without pauses.
//
// Seq does not propagate errors from the Streamers.
func Seq(s ...Streamer) Streamer {
	i := 0
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i < len(s) && len(samples) > 0 {
			sn, sok := s[i].Stream(samples)
			samples = samples[sn:]
			n, ok = n+sn, ok || sok
			if !sok {
				i++
			}
		}
		return n, ok
	})
}

// Mix takes zero or more Streamers and returns a Streamer which streams them added together
// sample by sample. The mix lasts as long as its longest Streamer; shorter ones contribute
// silence once drained.
//
// Mix does not propagate errors from the Streamers.
func Mix(s ...Streamer) Streamer {
	drained := make([]bool, len(s))
	return StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		var tmp [512][2]float64

		for len(samples) > 0 {
			toStream := len(samples)
			if toStream > len(tmp) {
				toStream = len(tmp)
			}
			for i := range samples[:toStream] {
				samples[i] = [2]float64{}
			}

			chunk := 0 // samples produced by the longest live streamer in this round
			for i, st := range s {
				if drained[i] {
					continue
				}
				sn, sok := st.Stream(tmp[:toStream])
				if !sok {
					drained[i] = true
				}
				if sn > chunk {
					chunk = sn
				}
				for j := range tmp[:sn] {
					samples[j][0] += tmp[j][0]
					samples[j][1] += tmp[j][1]
				}
			}
			if chunk == 0 {
				break
			}
			n += chunk
			samples = samples[chunk:]
		}

		for _, d := range drained {
			if !d {
				return n, true
			}
		}
		return n, n > 0
	})
}
