// Package measure produces a duration in seconds for one narration unit.
// Two interchangeable strategies implement the capability: FileMeasurer
// reads a produced audio file's real length by decoding its frames, and
// Estimator derives one from the narration's word count. Selection happens
// by backend availability; the rest of the engine is agnostic to which
// strategy produced a value.
package measure

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// DefaultWordsPerSecond is the speaking-rate constant used when estimating.
const DefaultWordsPerSecond = 2.5

// Measurer yields a duration in seconds for a narration unit. audioPath may
// be empty when no produced audio exists yet.
type Measurer interface {
	Measure(audioPath, narration string) (float64, error)
}

// Estimator derives a duration from word count at a fixed speaking rate.
type Estimator struct {
	WordsPerSecond float64
}

func NewEstimator(wordsPerSecond float64) *Estimator {
	if wordsPerSecond <= 0 {
		wordsPerSecond = DefaultWordsPerSecond
	}
	return &Estimator{WordsPerSecond: wordsPerSecond}
}

func (e *Estimator) Measure(audioPath, narration string) (float64, error) {
	words := len(strings.Fields(narration))
	if words == 0 {
		return 0, errors.New("cannot estimate duration: narration is empty")
	}
	return float64(words) / e.WordsPerSecond, nil
}

// FileMeasurer decodes mp3 frames to get the file's real length. When
// decoding fails and a fallback estimator is configured, the estimate is
// used instead so one unreadable file does not stall a batch.
type FileMeasurer struct {
	Fallback *Estimator
	logger   *slog.Logger
}

func NewFileMeasurer(fallback *Estimator, logger *slog.Logger) *FileMeasurer {
	return &FileMeasurer{Fallback: fallback, logger: logger}
}

func (m *FileMeasurer) Measure(audioPath, narration string) (float64, error) {
	seconds, err := m.measureFile(audioPath)
	if err == nil {
		return seconds, nil
	}

	if m.Fallback != nil {
		if m.logger != nil {
			m.logger.Warn("falling back to estimated duration", "path", audioPath, "error", err)
		}
		return m.Fallback.Measure(audioPath, narration)
	}
	return 0, err
}

func (m *FileMeasurer) measureFile(path string) (float64, error) {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return 0, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// Tag identification is best-effort: untagged mp3 files are still
	// decodable, but a file tagged as another container is rejected early.
	if _, fileType, err := tag.Identify(f); err == nil && fileType != tag.MP3 && fileType != tag.UnknownFileType {
		return 0, fmt.Errorf("file %q is %s, not mp3", filepath.Base(path), fileType)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	if total <= 0 {
		return 0, fmt.Errorf("no audio frames in %q", filepath.Base(path))
	}
	return total, nil
}

// Select picks the strategy for a project: file measurement when an audio
// directory is present, word-count estimation otherwise.
func Select(audioDir string, wordsPerSecond float64, logger *slog.Logger) Measurer {
	estimator := NewEstimator(wordsPerSecond)
	if info, err := os.Stat(audioDir); err == nil && info.IsDir() {
		return NewFileMeasurer(estimator, logger)
	}
	if logger != nil {
		logger.Info("audio directory unavailable, estimating durations", "dir", audioDir)
	}
	return estimator
}
