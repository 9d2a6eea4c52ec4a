package kyma

// Streamer is able to stream a finite or infinite sequence of stereo audio samples.
type Streamer interface {
	// Stream copies at most len(samples) next audio samples to the samples slice.
	//
	// The sample rate of the samples is unspecified in general, but should be specified for
	// each concrete Streamer. Every sample is a pair of the left and the right channel.
	//
	// The ok return value reports whether the Streamer can still produce samples. Once ok is
	// false, it stays false. Streaming zero samples with ok == true is allowed but discouraged.
	Stream(samples [][2]float64) (n int, ok bool)

	// Err returns an error which occurred during streaming. If no error occurred, nil is
	// returned. A Streamer that fails stops streaming (returns ok == false).
	Err() error
}

// StreamSeeker is a finite duration Streamer which supports seeking to an arbitrary position.
type StreamSeeker interface {
	Streamer

	// Len returns the total number of samples of the Streamer.
	Len() int

	// Position returns the current position of the Streamer. This value is between 0 and the
	// total length.
	Position() int

	// Seek sets the position of the Streamer to the provided value.
	Seek(p int) error
}

// StreamerFunc is a Streamer created by wrapping a streaming function, usually a closure
// over some time tracking variable.
type StreamerFunc func(samples [][2]float64) (n int, ok bool)

// Stream calls the wrapped streaming function.
func (sf StreamerFunc) Stream(samples [][2]float64) (n int, ok bool) {
	return sf(samples)
}

// Err always returns nil.
func (sf StreamerFunc) Err() error {
	return nil
}
