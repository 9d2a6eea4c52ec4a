package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kyma-sound/kyma/generators"
	"github.com/kyma-sound/kyma/internal/metrics"
	"github.com/kyma-sound/kyma/presets"
	"github.com/kyma-sound/kyma/synth"
)

// maxAudioRequestBytes bounds the JSON body of POST /v1/audio.
const maxAudioRequestBytes = 1 << 16

type audioRequest struct {
	FrequencyType presets.FrequencyType `json:"frequencyType"`
	Solfeggio     float64               `json:"solfeggio"`
	Brainwave     string                `json:"brainwave"`
	Intention     presets.Intention     `json:"intention"`
	BaseFrequency float64               `json:"baseFrequency"`
	BeatFrequency *float64              `json:"beatFrequency"` // overrides the preset beat
	Waveform      generators.Waveform   `json:"waveform"`
	Duration      *float64              `json:"duration"`
	Volume        *float64              `json:"volume"`
	Panning       float64               `json:"panning"`
}

func (s *Server) synthRequest(req audioRequest) (synth.Request, error) {
	resolved, err := s.resolve(presets.Selection{
		Type:      req.FrequencyType,
		Solfeggio: req.Solfeggio,
		Brainwave: req.Brainwave,
		Intention: req.Intention,
		Base:      req.BaseFrequency,
	})
	if err != nil {
		return synth.Request{}, err
	}
	out := synth.Request{
		BaseFreq: resolved.Base,
		BeatFreq: resolved.Beat,
		Waveform: req.Waveform,
		Duration: presets.DefaultDuration,
		Volume:   0.5,
		Panning:  req.Panning,
	}
	if req.BeatFrequency != nil {
		out.BeatFreq = *req.BeatFrequency
	}
	if req.Duration != nil {
		out.Duration = *req.Duration
	}
	if req.Volume != nil {
		out.Volume = *req.Volume
	}
	if out.Duration > s.cfg.MaxDuration {
		return synth.Request{}, errors.Wrapf(synth.ErrOutOfRange, "duration %v s exceeds the limit of %v s",
			out.Duration, s.cfg.MaxDuration)
	}
	return out, nil
}

// Audio handles POST /v1/audio: it renders the requested clip and sends it as a WAV download.
func (s *Server) Audio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAudioRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		metrics.ValidationRejectionsTotal.WithLabelValues("audio").Inc()
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request"))
		return
	}
	sreq, err := s.synthRequest(req)
	if err != nil {
		metrics.ValidationRejectionsTotal.WithLabelValues("audio").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	var body bytes.Buffer
	report, err := synth.Generate(&body, sreq)
	if err != nil {
		if synth.IsValidation(err) {
			metrics.ValidationRejectionsTotal.WithLabelValues("audio").Inc()
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("synthesis failed", zap.String("requestId", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("synthesis failed"))
		return
	}
	metrics.SynthesisSeconds.Observe(time.Since(start).Seconds())
	metrics.ClipsGeneratedTotal.WithLabelValues(sreq.Waveform.String()).Inc()
	if report.Normalized {
		metrics.ClipsNormalizedTotal.Inc()
	}
	s.logger.Debug("clip rendered",
		zap.Float64("base", sreq.BaseFreq),
		zap.Float64("beat", sreq.BeatFreq),
		zap.Stringer("waveform", sreq.Waveform),
		zap.Int("frames", report.Frames),
		zap.Float64("peak", report.Peak),
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename="`+synth.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.Write(body.Bytes())
}
