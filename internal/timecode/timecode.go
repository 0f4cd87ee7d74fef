// Package timecode converts between elapsed milliseconds and SMPTE-style
// HH:MM:SS:FF strings at a given frame rate. Non-drop-frame only.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// DefaultFPS is used when a caller passes a non-positive frame rate.
const DefaultFPS = 30

var pattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}):(\d{2})$`)

// InvalidTimecodeError reports a string that does not parse as HH:MM:SS:FF
// or has a field outside its modular range.
type InvalidTimecodeError struct {
	Input  string
	Reason string
}

func (e *InvalidTimecodeError) Error() string {
	return fmt.Sprintf("invalid timecode %q: %s", e.Input, e.Reason)
}

// FrameCount quantizes a millisecond duration to whole frames using
// round-half-up. This is the only place fractional-second audio durations
// meet frame boundaries; every conversion in the engine goes through it.
func FrameCount(ms, fps int) int {
	return int(math.Floor(float64(ms)*float64(fps)/1000.0 + 0.5))
}

// FromMs renders elapsed milliseconds as HH:MM:SS:FF.
func FromMs(ms, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	totalFrames := FrameCount(ms, fps)
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}

// ToMs parses HH:MM:SS:FF back to milliseconds. Round-trip error against
// FromMs is bounded by one frame duration (1000/fps ms).
func ToMs(tc string, fps int) (int, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}

	m := pattern.FindStringSubmatch(tc)
	if m == nil {
		return 0, &InvalidTimecodeError{Input: tc, Reason: "must match HH:MM:SS:FF"}
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	frames, _ := strconv.Atoi(m[4])

	if minutes > 59 {
		return 0, &InvalidTimecodeError{Input: tc, Reason: "minutes out of range"}
	}
	if seconds > 59 {
		return 0, &InvalidTimecodeError{Input: tc, Reason: "seconds out of range"}
	}
	if frames >= fps {
		return 0, &InvalidTimecodeError{Input: tc, Reason: fmt.Sprintf("frame index must be below %d", fps)}
	}

	totalFrames := (hours*3600+minutes*60+seconds)*fps + frames
	return int(math.Floor(float64(totalFrames)*1000.0/float64(fps) + 0.5)), nil
}
