// Package assets opens sound effects and music for the game. Files are read
// from disk; a missing file is replaced by a synthesized tone so the game
// runs without any audio content checked out.
package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/rs/zerolog"
)

// SampleRate is the rate of the shared audio context.
const SampleRate = 44100

const (
	effectSeconds = 0.18
	trackSeconds  = 2.0
	// 16-bit stereo.
	bytesPerFrame = 4
)

var ErrUnknownTrack = errors.New("assets: unknown music track")

// Loader opens clips against one audio context.
type Loader struct {
	ctx    *audio.Context
	dir    string
	log    zerolog.Logger
	tracks map[string]prefabs.AudioSpec
}

// NewLoader resolves files relative to dir. ebiten allows a single audio
// context per process; pass the one the host created.
func NewLoader(ctx *audio.Context, dir string, log zerolog.Logger) *Loader {
	return &Loader{
		ctx:    ctx,
		dir:    dir,
		log:    log.With().Str("system", "assets").Logger(),
		tracks: make(map[string]prefabs.AudioSpec),
	}
}

// SetTracks registers the music tracks Track can open.
func (l *Loader) SetTracks(tracks []prefabs.AudioSpec) {
	l.tracks = make(map[string]prefabs.AudioSpec, len(tracks))
	for _, t := range tracks {
		l.tracks[t.Name] = t
	}
}

// Sound opens a one-shot clip. It matches entity.SoundLoader.
func (l *Loader) Sound(spec prefabs.AudioSpec) (component.Playable, error) {
	p, err := l.open(spec, false)
	if err != nil {
		return nil, err
	}
	if spec.Volume > 0 {
		p.SetVolume(spec.Volume)
	}
	return p, nil
}

// Track opens a looping music track by name. It matches system.TrackLoader.
func (l *Loader) Track(name string) (component.Playable, error) {
	spec, ok := l.tracks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, name)
	}
	return l.open(spec, true)
}

func (l *Loader) open(spec prefabs.AudioSpec, loop bool) (*audio.Player, error) {
	if l == nil || l.ctx == nil {
		return nil, errors.New("assets: no audio context")
	}

	b, err := os.ReadFile(l.path(spec.File))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %q: %w", spec.File, err)
		}
		l.log.Debug().Str("clip", spec.Name).Str("file", spec.File).Msg("file missing, using synthesized tone")
		seconds := effectSeconds
		if loop {
			seconds = trackSeconds
		}
		b = Tone(ToneFrequency(spec.Name), seconds, SampleRate)
	} else if isWAV(spec.File) {
		stream, err := wav.DecodeWithSampleRate(l.ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", spec.File, err)
		}
		if b, err = io.ReadAll(stream); err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", spec.File, err)
		}
	}

	if !loop {
		return l.ctx.NewPlayerFromBytes(b), nil
	}
	length := int64(len(b)) - int64(len(b))%bytesPerFrame
	return l.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(b), length))
}

func (l *Loader) path(file string) string {
	clean := cleanAssetPath(file)
	if l.dir == "" {
		return filepath.FromSlash(clean)
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean))
}

func isWAV(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".wav")
}

// Tone renders a sine at freq as 16-bit little endian stereo PCM with a
// short linear fade at both ends.
func Tone(freq, seconds float64, sampleRate int) []byte {
	frames := int(seconds * float64(sampleRate))
	if frames <= 0 || sampleRate <= 0 {
		return nil
	}
	fade := sampleRate / 100
	if fade > frames/2 {
		fade = frames / 2
	}

	out := make([]byte, frames*bytesPerFrame)
	for i := 0; i < frames; i++ {
		gain := 0.3
		switch {
		case fade > 0 && i < fade:
			gain *= float64(i) / float64(fade)
		case fade > 0 && i >= frames-fade:
			gain *= float64(frames-1-i) / float64(fade)
		}
		v := int16(gain * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame+2:], uint16(v))
	}
	return out
}

// ToneFrequency picks a stable pitch in 220..880 Hz for a clip name.
func ToneFrequency(name string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return 220 + float64(h.Sum32()%661)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
