package server

import (
	"bytes"
	"image/color"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kyma-sound/kyma/cymatics"
	"github.com/kyma-sound/kyma/internal/metrics"
	"github.com/kyma-sound/kyma/presets"
)

// queryNumber parses the query parameter key, returning fallback when it is absent.
func queryNumber(r *http.Request, key string, fallback float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return presets.ParseNumber(v)
}

func queryColor(r *http.Request) (color.RGBA, error) {
	v := r.URL.Query().Get("color")
	if v == "" {
		return cymatics.DefaultColor, nil
	}
	return cymatics.ParseHex(v)
}

// Still handles GET /v1/still: the pattern at t = 0 as a PNG download.
func (s *Server) Still(w http.ResponseWriter, r *http.Request) {
	freq, err := queryNumber(r, "frequency", presets.DefaultBase)
	if err != nil {
		metrics.ValidationRejectionsTotal.WithLabelValues("still").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := queryColor(r)
	if err != nil {
		metrics.ValidationRejectionsTotal.WithLabelValues("still").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body bytes.Buffer
	if err := cymatics.EncodePNG(&body, cymatics.Params{Frequency: freq, Color: c}); err != nil {
		s.logger.Error("still rendering failed", zap.String("requestId", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.StillsRenderedTotal.Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cymatics.StillFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.Write(body.Bytes())
}
