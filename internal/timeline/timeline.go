// Package timeline flattens a storyboard project into an ordered sequence of
// absolutely-placed segments, one per shot, honoring the rule that the last
// shot in a scene and the last scene in a project contribute no transition
// gap.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/storycut/storycut-agent/internal/storyboard"
)

// NarrationPreviewLen is the number of runes of narration carried on each
// segment for markers, comments and the snapshot document.
const NarrationPreviewLen = 50

// ErrEmptyProject is returned when the project has no scenes.
var ErrEmptyProject = errors.New("project contains no scenes")

// EmptySceneError is returned when a scene has no shots.
type EmptySceneError struct {
	Scene int
}

func (e *EmptySceneError) Error() string {
	return fmt.Sprintf("scene %d contains no shots", e.Scene)
}

// Segment is one shot's placement on the absolute timeline.
type Segment struct {
	SceneNumber int
	SceneTitle  string
	ShotNumber  int
	StartMs     int
	EndMs       int
	MediaRef    string
	Narration   string
}

// Timeline is the ordered segment sequence plus the context the serializers
// need. TotalMs is the cursor position after the last shot, with no trailing
// transition.
type Timeline struct {
	ProjectName  string
	ProjectTitle string
	FPS          int
	TotalMs      int
	Segments     []Segment
}

// MsFromSeconds rounds a real-valued duration to whole milliseconds,
// half-up. Every duration is rounded independently before accumulation so
// that rebuilding from the same model is deterministic.
func MsFromSeconds(sec float64) int {
	return int(math.Floor(sec*1000.0 + 0.5))
}

// Preview returns the first NarrationPreviewLen runes of the narration with
// newlines flattened to spaces.
func Preview(narration string) string {
	flat := strings.Join(strings.Fields(narration), " ")
	runes := []rune(flat)
	if len(runes) > NarrationPreviewLen {
		return string(runes[:NarrationPreviewLen])
	}
	return flat
}

// Build walks the project once and emits segments in scene/shot order.
func Build(p *storyboard.Project) (*Timeline, error) {
	if len(p.Scenes) == 0 {
		return nil, ErrEmptyProject
	}
	for i := range p.Scenes {
		if len(p.Scenes[i].Shots) == 0 {
			return nil, &EmptySceneError{Scene: p.Scenes[i].Number}
		}
	}

	fps := p.FPS
	if fps <= 0 {
		fps = storyboard.DefaultFPS
	}

	tl := &Timeline{
		ProjectName:  p.Name,
		ProjectTitle: p.Title,
		FPS:          fps,
		Segments:     make([]Segment, 0, p.ShotCount()),
	}

	cursor := 0
	for si := range p.Scenes {
		scene := &p.Scenes[si]
		for hi := range scene.Shots {
			shot := &scene.Shots[hi]
			durationMs := MsFromSeconds(shot.Duration)

			tl.Segments = append(tl.Segments, Segment{
				SceneNumber: scene.Number,
				SceneTitle:  scene.Title,
				ShotNumber:  shot.Number,
				StartMs:     cursor,
				EndMs:       cursor + durationMs,
				MediaRef:    shot.MediaRef,
				Narration:   Preview(shot.Narration),
			})

			cursor += durationMs
			if hi < len(scene.Shots)-1 {
				cursor += MsFromSeconds(shot.TransitionDuration)
			}
		}
		if si < len(p.Scenes)-1 {
			cursor += MsFromSeconds(scene.TransitionDuration)
		}
	}

	tl.TotalMs = cursor
	return tl, nil
}
