// Package waveform provides the audio data source behind the waveform strip:
// a session-scoped beep stream whose recent samples are kept in a ring buffer
// and exposed as a decimated waveform and a coarse spectrum.
package waveform

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/pthm-cable/lava/config"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateSuspended
	StateRunning
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotInitialized = errors.New("waveform: session not initialized")
	ErrDisposed       = errors.New("waveform: session disposed")
)

// Options configures a Session.
type Options struct {
	Path        string // WAV file; empty = generated sine tone
	Output      bool   // Play through the speaker
	SampleRate  int
	ToneHz      float64
	Buffer      time.Duration
	HistorySize int // Ring length in samples, rounded up to a power of two
}

// OptionsFromConfig extracts session options from the audio config section.
func OptionsFromConfig(cfg config.AudioConfig) Options {
	return Options{
		Path:        cfg.Path,
		Output:      cfg.Output,
		SampleRate:  cfg.SampleRate,
		ToneHz:      cfg.ToneHz,
		Buffer:      time.Duration(cfg.BufferMs) * time.Millisecond,
		HistorySize: cfg.HistorySize,
	}
}

// Session owns one audio stream from Initialize to Dispose. When Output is
// set the speaker goroutine pulls samples; otherwise the caller drives the
// stream with Pump.
type Session struct {
	opts Options
	sr   beep.SampleRate

	mu    sync.Mutex // lifecycle; taken before the speaker lock
	state State

	// Written from the stream, possibly on the speaker goroutine
	ringMu sync.Mutex
	ring   []float32
	mask   int
	write  int
	filled int

	ctrl    *beep.Ctrl
	closer  io.Closer
	speaker bool
	scratch [][2]float64
}

// NewSession creates an idle session. Nothing is opened until Initialize.
func NewSession(opts Options) *Session {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 100 * time.Millisecond
	}
	size := 1
	for size < opts.HistorySize || size < 2 {
		size <<= 1
	}
	return &Session{
		opts: opts,
		sr:   beep.SampleRate(opts.SampleRate),
		ring: make([]float32, size),
		mask: size - 1,
	}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize opens the source and, with Output set, the speaker. The stream
// starts suspended. Calling it again is a no-op.
func (s *Session) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateDisposed:
		return ErrDisposed
	case StateIdle:
	default:
		return nil
	}

	src, closer, err := s.openSource()
	if err != nil {
		return err
	}

	s.ctrl = &beep.Ctrl{Streamer: &tap{session: s, src: src}, Paused: true}
	s.closer = closer

	if s.opts.Output {
		if err := speaker.Init(s.sr, s.sr.N(s.opts.Buffer)); err != nil {
			if closer != nil {
				closer.Close()
			}
			return fmt.Errorf("initializing speaker: %w", err)
		}
		speaker.Play(s.ctrl)
		s.speaker = true
	}

	s.state = StateSuspended
	return nil
}

// openSource returns a looping WAV stream resampled to the session rate, or
// a sine tone when no path is set.
func (s *Session) openSource() (beep.Streamer, io.Closer, error) {
	if s.opts.Path == "" {
		tone, err := generators.SineTone(s.sr, s.opts.ToneHz)
		if err != nil {
			return nil, nil, fmt.Errorf("creating tone: %w", err)
		}
		return tone, nil, nil
	}

	f, err := os.Open(s.opts.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audio file: %w", err)
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", s.opts.Path, err)
	}

	var src beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != s.sr {
		src = beep.Resample(4, format.SampleRate, s.sr, src)
	}
	return src, stream, nil
}

// Resume starts (or restarts) the stream.
func (s *Session) Resume() error {
	return s.setPaused(false)
}

// Suspend pauses the stream. The ring keeps its last contents.
func (s *Session) Suspend() error {
	return s.setPaused(true)
}

func (s *Session) setPaused(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return ErrNotInitialized
	case StateDisposed:
		return ErrDisposed
	}

	if s.speaker {
		speaker.Lock()
		s.ctrl.Paused = paused
		speaker.Unlock()
	} else {
		s.ctrl.Paused = paused
	}

	if paused {
		s.state = StateSuspended
	} else {
		s.state = StateRunning
	}
	return nil
}

// Dispose stops playback and releases the source. The session cannot be
// reused afterwards.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return nil
	}
	s.state = StateDisposed

	if s.speaker {
		speaker.Clear()
		speaker.Close()
		s.speaker = false
	}

	var err error
	if s.closer != nil {
		err = s.closer.Close()
		s.closer = nil
	}
	s.ctrl = nil
	return err
}

// Pump pulls n samples through the stream when there is no speaker to do
// it. It is a no-op when playing through the speaker or when not running.
func (s *Session) Pump(n int) {
	s.mu.Lock()
	if s.speaker || s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	ctrl := s.ctrl
	if cap(s.scratch) < 512 {
		s.scratch = make([][2]float64, 512)
	}
	buf := s.scratch[:512]
	s.mu.Unlock()

	// The tap takes ringMu itself while recording
	for n > 0 {
		chunk := min(n, len(buf))
		got, ok := ctrl.Stream(buf[:chunk])
		if !ok || got == 0 {
			return
		}
		n -= got
	}
}

// record appends mono samples to the ring.
func (s *Session) record(samples [][2]float64) {
	s.ringMu.Lock()
	defer s.ringMu.Unlock()
	for _, frame := range samples {
		s.ring[s.write] = float32((frame[0] + frame[1]) * 0.5)
		s.write = (s.write + 1) & s.mask
	}
	s.filled = min(s.filled+len(samples), len(s.ring))
}

// recent copies the last n recorded samples, oldest first, into dst.
// Caller holds ringMu.
func (s *Session) recent(dst []float32, n int) []float32 {
	dst = dst[:0]
	start := (s.write - n) & s.mask
	for i := 0; i < n; i++ {
		dst = append(dst, s.ring[(start+i)&s.mask])
	}
	return dst
}

// Waveform returns points samples evenly spaced over the last buffer's
// worth of audio, each in [-1, 1]. Missing history reads as silence.
func (s *Session) Waveform(points int) []float32 {
	out := make([]float32, points)
	if points == 0 {
		return out
	}

	s.ringMu.Lock()
	defer s.ringMu.Unlock()

	span := min(s.sr.N(s.opts.Buffer), s.filled)
	if span == 0 {
		return out
	}
	window := s.recent(make([]float32, 0, span), span)
	for i := range out {
		v := window[i*span/points]
		out[i] = max(-1, min(1, v))
	}
	return out
}

// Spectrum returns the Hann-windowed magnitude spectrum of the most recent
// samples as the peak of each of bands linear bands from 0 Hz to Nyquist,
// normalized so a full-scale sine reads near 1.
func (s *Session) Spectrum(bands int) []float64 {
	out := make([]float64, bands)
	if bands == 0 {
		return out
	}

	s.ringMu.Lock()
	n := 1
	for n*2 <= s.filled {
		n *= 2
	}
	if n < 2 {
		s.ringMu.Unlock()
		return out
	}
	window := s.recent(make([]float32, 0, n), n)
	s.ringMu.Unlock()

	seq := make([]float64, n)
	for i, v := range window {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		seq[i] = float64(v) * hann
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	// Hann has coherent gain 0.5
	scale := 4.0 / float64(n)
	for k, c := range coeffs {
		b := k * bands / len(coeffs)
		mag := math.Hypot(real(c), imag(c)) * scale
		if mag > out[b] {
			out[b] = mag
		}
	}
	return out
}

// PeakBand returns the index and level of the loudest band, or -1 when every
// band is silent.
func PeakBand(bands []float64) (int, float64) {
	best, level := -1, 0.0
	for i, v := range bands {
		if v > level {
			best, level = i, v
		}
	}
	return best, level
}

// BandRange returns the frequency span in Hz covered by band i of n linear
// bands from 0 Hz to Nyquist.
func (s *Session) BandRange(i, n int) (lo, hi float64) {
	width := float64(s.sr) / 2 / float64(n)
	return float64(i) * width, float64(i+1) * width
}

// tap records every sample that passes through to the session ring.
type tap struct {
	session *Session
	src     beep.Streamer
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)
	if n > 0 {
		t.session.record(samples[:n])
	}
	return n, ok
}

func (t *tap) Err() error {
	return t.src.Err()
}
