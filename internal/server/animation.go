package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kyma-sound/kyma/cymatics"
	"github.com/kyma-sound/kyma/internal/metrics"
	"github.com/kyma-sound/kyma/presets"
)

const frameWriteDeadline = 10 * time.Second

func (s *Server) animator(r *http.Request) (*cymatics.Animator, int, error) {
	freq, err := queryNumber(r, "frequency", presets.DefaultBase)
	if err != nil {
		return nil, 0, err
	}
	speed, err := queryNumber(r, "speed", presets.DefaultBeat)
	if err != nil {
		return nil, 0, err
	}
	width, err := queryNumber(r, "width", cymatics.GridSize)
	if err != nil {
		return nil, 0, err
	}
	height, err := queryNumber(r, "height", 500)
	if err != nil {
		return nil, 0, err
	}
	fps, err := queryNumber(r, "fps", float64(s.cfg.AnimationFPS))
	if err != nil {
		return nil, 0, err
	}
	if fps < 1 || fps > float64(s.cfg.AnimationFPS) {
		return nil, 0, errors.Errorf("fps must be within [1, %d], got %v", s.cfg.AnimationFPS, fps)
	}
	if width < 1 || height < 1 || width > 4096 || height > 4096 {
		return nil, 0, errors.Wrapf(cymatics.ErrInvalidSurface, "%vx%v", width, height)
	}
	return &cymatics.Animator{
		Params: cymatics.Params{Frequency: freq, WaveSpeed: speed},
		Width:  int(width),
		Height: int(height),
	}, int(fps), nil
}

// Animation handles GET /v1/animation: a websocket carrying one binary message per frame until
// the client goes away.
func (s *Server) Animation(w http.ResponseWriter, r *http.Request) {
	a, fps, err := s.animator(r)
	if err != nil {
		metrics.ValidationRejectionsTotal.WithLabelValues("animation").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	// the server's read timeout must not end a stream the client only listens to
	conn.SetReadDeadline(time.Time{})

	metrics.AnimationStreamsTotal.Inc()
	metrics.ActiveAnimationStreams.Inc()
	defer metrics.ActiveAnimationStreams.Dec()

	id := GetRequestID(r.Context())
	s.logger.Info("animation stream opened",
		zap.String("requestId", id),
		zap.Float64("frequency", a.Params.Frequency),
		zap.Float64("speed", a.Params.WaveSpeed),
		zap.String("surface", strconv.Itoa(a.Width)+"x"+strconv.Itoa(a.Height)),
		zap.Int("fps", fps),
	)

	loop, err := a.Start(r.Context(), time.Second/time.Duration(fps), func(f *cymatics.Frame) error {
		p, err := f.MarshalBinary()
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(frameWriteDeadline))
		return conn.WriteMessage(websocket.BinaryMessage, p)
	})
	if err != nil {
		s.logger.Error("animation failed to start", zap.Error(err))
		return
	}

	// the client never sends anything; reading notices when it closes
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				loop.Stop()
				return
			}
		}
	}()

	<-loop.Done()
	if err := loop.Err(); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.logger.Debug("animation stream ended", zap.String("requestId", id), zap.Error(err))
	}
	s.logger.Info("animation stream closed", zap.String("requestId", id), zap.Int("frames", loop.Frames()))
}
