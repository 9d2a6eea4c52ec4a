// Package tui hosts the animated pattern in a terminal.
package tui

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell"
	"github.com/pkg/errors"

	"github.com/kyma-sound/kyma/cymatics"
)

// dot is drawn in every cell holding at least one lit grid point.
const dot = '•'

func drawTextLine(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// cells maps the lit points of f onto a cols×rows terminal whose cells are twice as high as
// wide, so the frame is expected to be evaluated on a cols×2·rows surface.
func cells(f *cymatics.Frame, cols, rows int) [][]bool {
	lit := make([][]bool, rows)
	for y := range lit {
		lit[y] = make([]bool, cols)
	}
	for j := 0; j < cymatics.GridSize; j++ {
		for i := 0; i < cymatics.GridSize; i++ {
			if !f.Lit(i, j) {
				continue
			}
			x, y := f.Point(i, j)
			cx, cy := int(x), int(y/2)
			if cx < cols && cy < rows {
				lit[cy][cx] = true
			}
		}
	}
	return lit
}

type panel struct {
	screen tcell.Screen
	params cymatics.Params
	fps    int
	style  tcell.Style
}

func (p *panel) draw(f *cymatics.Frame, cols, rows int) error {
	p.screen.Clear()
	for y, row := range cells(f, cols, rows) {
		for x, on := range row {
			if on {
				p.screen.SetContent(x, y, dot, nil, p.style)
			}
		}
	}
	status := fmt.Sprintf("%g Hz  speed %g  t=%.2f  [ESC] quit", p.params.Frequency, p.params.WaveSpeed, f.T)
	drawTextLine(p.screen, 0, rows, status, tcell.StyleDefault.Bold(true))
	p.screen.Show()
	return nil
}

// start runs an animation filling the current screen, all but the status line.
func (p *panel) start(ctx context.Context) (*cymatics.Loop, error) {
	cols, height := p.screen.Size()
	rows := height - 1
	a := &cymatics.Animator{Params: p.params, Width: cols, Height: 2 * rows}
	return a.Start(ctx, time.Second/time.Duration(p.fps), func(f *cymatics.Frame) error {
		return p.draw(f, cols, rows)
	})
}

// Run animates params on screen at fps frames per second until ESC or q is pressed or ctx is
// done. The screen must be initialized; Run does not finalize it.
func Run(ctx context.Context, screen tcell.Screen, params cymatics.Params, fps int) error {
	if fps < 1 {
		return errors.Errorf("tui: fps must be positive, got %d", fps)
	}
	p := &panel{
		screen: screen,
		params: params,
		fps:    fps,
		style: tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(params.Color.R), int32(params.Color.G), int32(params.Color.B))),
	}

	loop, err := p.start(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if loop != nil {
			loop.Stop()
		}
	}()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		for {
			event := screen.PollEvent()
			if event == nil {
				return
			}
			select {
			case events <- event:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-loop.Done():
			if err := loop.Err(); err != nil {
				return err
			}
			return nil
		case event := <-events:
			switch event := event.(type) {
			case *tcell.EventKey:
				if event.Key() == tcell.KeyESC {
					return nil
				}
				if event.Key() == tcell.KeyRune && unicode.ToLower(event.Rune()) == 'q' {
					return nil
				}
			case *tcell.EventResize:
				loop.Stop()
				screen.Sync()
				if loop, err = p.start(ctx); err != nil {
					return err
				}
			}
		}
	}
}
