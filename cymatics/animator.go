package cymatics

import (
	"context"
	"time"
)

// Animator renders frames of a pattern on a fixed surface, advancing t by Params.Step after
// every frame.
type Animator struct {
	Params        Params
	Width, Height int
}

// Loop is a running animation started by Animator.Start.
type Loop struct {
	cancel context.CancelFunc
	done   chan struct{}
	frames int
	err    error
}

// Start renders the first frame immediately and then one frame per interval, handing each to
// draw, until Stop is called, ctx is done or draw returns an error. Frames are never skipped:
// a slow draw delays the following frames. An interval of zero renders frames back to back.
func (a *Animator) Start(ctx context.Context, interval time.Duration, draw func(*Frame) error) (*Loop, error) {
	if a.Width <= 0 || a.Height <= 0 {
		_, err := Evaluate(a.Params, a.Width, a.Height, 0)
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{cancel: cancel, done: make(chan struct{})}
	go l.run(ctx, a, interval, draw)
	return l, nil
}

func (l *Loop) run(ctx context.Context, a *Animator, interval time.Duration, draw func(*Frame) error) {
	defer close(l.done)
	defer l.cancel()

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	t := 0.0
	for {
		frame, err := Evaluate(a.Params, a.Width, a.Height, t)
		if err != nil {
			l.err = err
			return
		}
		// a stop requested while evaluating wins over drawing
		if ctx.Err() != nil {
			return
		}
		if err := draw(frame); err != nil {
			l.err = err
			return
		}
		l.frames++
		t += a.Params.Step()

		if tick == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		select {
		case <-tick:
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends the loop and waits for the current frame to finish. It is safe to call Stop more
// than once and after the loop ended on its own.
func (l *Loop) Stop() {
	l.cancel()
	<-l.done
}

// Done is closed once the loop has ended.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Err returns the error returned by draw, if that is what ended the loop. It must only be called
// after Done is closed. A loop ended by Stop or by its context reports nil.
func (l *Loop) Err() error {
	return l.err
}

// Frames returns the number of frames drawn. It must only be called after Done is closed.
func (l *Loop) Frames() int {
	return l.frames
}
