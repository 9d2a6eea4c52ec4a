// Package speaker implements playback of kyma.Streamer values through physical speakers.
package speaker

import (
	"context"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

const channelCount = 2

// format is what the speaker feeds oto: 16-bit signed little-endian stereo.
var format = kyma.Format{NumChannels: channelCount, Precision: 2}

var (
	mu     sync.Mutex
	mix    = &mixer{}
	otoCtx *oto.Context
	player *oto.Player
)

// Init initializes audio playback through speaker. Must be called before using this package.
//
// The bufferSize argument specifies the number of samples of the speaker's buffer. Bigger
// bufferSize means lower CPU usage and more reliable playback. Lower bufferSize means better
// responsiveness and less delay.
func Init(sampleRate kyma.SampleRate, bufferSize int) error {
	mu.Lock()
	defer mu.Unlock()
	if otoCtx != nil {
		return errors.New("speaker cannot be initialized more than once")
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   sampleRate.D(bufferSize),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}
	<-ready

	otoCtx = ctx
	player = otoCtx.NewPlayer(newReader(mix))
	player.Play()
	return nil
}

// Close stops the playback and drops every playing Streamer. The oto context itself lives as
// long as the process, so Init cannot be called again.
func Close() {
	mu.Lock()
	p := player
	player = nil
	mix.clear()
	mu.Unlock()

	// oto reads under its own lock, and sampleReader.Read takes mu
	if p != nil {
		p.Close()
	}
	if otoCtx != nil {
		otoCtx.Suspend()
	}
}

// Play starts playing all provided Streamers through the speaker.
func Play(s ...kyma.Streamer) {
	mu.Lock()
	mix.add(s...)
	mu.Unlock()
}

// PlayAndWait plays s and blocks until it is drained or ctx is done. On cancellation s is
// removed from the speaker.
func PlayAndWait(ctx context.Context, s kyma.Streamer) error {
	done := make(chan struct{})
	wrapped := &handle{kyma.Seq(s, kyma.Callback(func() { close(done) }))}
	Play(wrapped)
	select {
	case <-done:
		return s.Err()
	case <-ctx.Done():
		mu.Lock()
		mix.remove(wrapped)
		mu.Unlock()
		return ctx.Err()
	}
}

// handle gives a Streamer an identity the mixer can find it by.
type handle struct {
	kyma.Streamer
}

// mixer adds up its Streamers and streams silence when there are none, so the speaker never
// runs dry. Drained Streamers are dropped.
type mixer struct {
	streamers []kyma.Streamer
	tmp       [][2]float64
}

func (m *mixer) add(s ...kyma.Streamer) {
	m.streamers = append(m.streamers, s...)
}

func (m *mixer) remove(s kyma.Streamer) {
	for i := range m.streamers {
		if m.streamers[i] == s {
			m.streamers = append(m.streamers[:i], m.streamers[i+1:]...)
			return
		}
	}
}

func (m *mixer) clear() {
	m.streamers = nil
}

func (m *mixer) Stream(samples [][2]float64) (n int, ok bool) {
	if cap(m.tmp) < len(samples) {
		m.tmp = make([][2]float64, len(samples))
	}
	for i := range samples {
		samples[i] = [2]float64{}
	}
	live := m.streamers[:0]
	for _, s := range m.streamers {
		tmp := m.tmp[:len(samples)]
		sn, sok := s.Stream(tmp)
		for i := range tmp[:sn] {
			samples[i][0] += tmp[i][0]
			samples[i][1] += tmp[i][1]
		}
		if sok {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(m.streamers); i++ {
		m.streamers[i] = nil
	}
	m.streamers = live
	return len(samples), true
}

func (m *mixer) Err() error {
	return nil
}

// sampleReader is a wrapper for kyma.Streamer to implement io.Reader.
type sampleReader struct {
	s   kyma.Streamer
	buf [][2]float64
}

func newReader(s kyma.Streamer) *sampleReader {
	return &sampleReader{s: s}
}

// Read pulls samples from the reader and fills buf with the encoded samples. Read expects the
// size of buf be divisible by the length of a sample (= channel count * bit depth in bytes).
func (r *sampleReader) Read(buf []byte) (n int, err error) {
	width := format.Width()
	if len(buf)%width != 0 {
		return 0, errors.New("requested number of bytes do not align with the samples")
	}
	ns := len(buf) / width
	if len(r.buf) < ns {
		r.buf = make([][2]float64, ns)
	}
	mu.Lock()
	ns, _ = r.s.Stream(r.buf[:ns])
	mu.Unlock()

	for i := range r.buf[:ns] {
		n += format.EncodeSigned(buf[n:], r.buf[i])
	}
	return n, nil
}
