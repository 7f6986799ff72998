// Package speech ties capture, synthesis and playback into the voice
// pipeline.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/audio"
	"github.com/anandvisw/pharmscribe-go/internal/metrics"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// Voice selects between the two configured voice presets.
type Voice string

const (
	// VoicePrimary reads primary-language (English) text.
	VoicePrimary Voice = "primary"
	// VoiceSecondary reads secondary-language (Tamil) text.
	VoiceSecondary Voice = "secondary"
)

// Synthesizer is the speech-generation call the pipeline depends on.
// Satisfied by gemini.Client. The returned bytes are raw little-endian PCM16.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error)
}

// Pipeline manages voice capture into analysis and result read-aloud. At
// most one recording and one playback session are active at a time.
type Pipeline struct {
	synth    Synthesizer
	player   *audio.Player
	recorder *audio.Recorder
	analyzer *analysis.Analyzer
	logger   *slog.Logger

	primaryVoice   string
	secondaryVoice string
	sampleRate     int
}

// Options carries the pipeline's fixed configuration.
type Options struct {
	PrimaryVoice   string
	SecondaryVoice string
	// SampleRate of returned speech audio; 0 means audio.DefaultSampleRate.
	SampleRate int
}

// New creates a pipeline. recorder and analyzer may be nil when only
// synthesis is needed.
func New(synth Synthesizer, player *audio.Player, recorder *audio.Recorder, analyzer *analysis.Analyzer, opts Options, logger *slog.Logger) *Pipeline {
	if opts.SampleRate <= 0 {
		opts.SampleRate = audio.DefaultSampleRate
	}
	return &Pipeline{
		synth:          synth,
		player:         player,
		recorder:       recorder,
		analyzer:       analyzer,
		logger:         logger,
		primaryVoice:   opts.PrimaryVoice,
		secondaryVoice: opts.SecondaryVoice,
		sampleRate:     opts.SampleRate,
	}
}

// Synthesize requests speech for the text and decodes the returned PCM
// stream into a playable buffer.
func (p *Pipeline) Synthesize(ctx context.Context, text string, voice Voice) (buf *audio.Buffer, err error) {
	start := time.Now()
	defer func() { metrics.Observe(metrics.OpSynthesize, start, err) }()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: nothing to synthesize", models.ErrInvalidInput)
	}

	raw, err := p.synth.GenerateSpeech(ctx, text, p.voiceName(voice))
	if err != nil {
		return nil, err
	}
	buf, err = audio.DecodePCM16(raw, 1, p.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: decode speech audio: %v", models.ErrSchema, err)
	}
	p.logger.Debug("speech synthesized", "voice", string(voice), "duration", buf.Duration())
	return buf, nil
}

// Speak synthesizes and plays the text, superseding any active playback.
func (p *Pipeline) Speak(ctx context.Context, text string, voice Voice) error {
	buf, err := p.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	return p.player.Play(buf)
}

// SpeakResult reads a completed report aloud, routed by RouteResult.
func (p *Pipeline) SpeakResult(ctx context.Context, result *models.AnalysisResult) error {
	text, voice := RouteResult(result)
	return p.Speak(ctx, text, voice)
}

// StopPlayback cancels the active playback session, if any.
func (p *Pipeline) StopPlayback() { p.player.Stop() }

// Playing reports whether a playback session is active.
func (p *Pipeline) Playing() bool { return p.player.Playing() }

// StartRecording opens the capture session.
func (p *Pipeline) StartRecording(ctx context.Context) error {
	return p.recorder.Start(ctx)
}

// StopAndAnalyze ends the capture session and feeds the recorded blob
// through the analysis client as an audio-typed input.
func (p *Pipeline) StopAndAnalyze(ctx context.Context, triageLevel string) (*models.AnalysisResult, error) {
	att, err := p.recorder.Stop()
	if err != nil {
		return nil, err
	}
	return p.analyzer.Analyze(ctx, analysis.Request{
		TriageLevel: triageLevel,
		Attachment:  att,
	})
}

// RouteResult picks the text and voice for read-aloud. The heuristic is a
// fixed case-insensitive substring check, not a language-detection system:
// if the detected language mentions Tamil, the Tamil summary is read with
// the secondary voice.
func RouteResult(result *models.AnalysisResult) (string, Voice) {
	if strings.Contains(strings.ToLower(result.DetectedLanguage), "tamil") && result.TamilAnalysis != nil {
		return result.TamilAnalysis.Summary, VoiceSecondary
	}
	return result.Summary, VoicePrimary
}

func (p *Pipeline) voiceName(voice Voice) string {
	if voice == VoiceSecondary {
		return p.secondaryVoice
	}
	return p.primaryVoice
}
