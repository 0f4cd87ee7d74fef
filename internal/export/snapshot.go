package export

import (
	"encoding/json"
	"fmt"

	"github.com/storycut/storycut-agent/internal/timecode"
	"github.com/storycut/storycut-agent/internal/timeline"
)

// SnapshotEncoder emits the canonical machine-readable timeline document.
// Downstream automation should consume this instead of parsing either editor
// format. Output is deterministic: the same timeline always serializes to
// identical bytes.
type SnapshotEncoder struct{}

type Snapshot struct {
	ProjectName           string           `json:"project_name"`
	ProjectTitle          string           `json:"project_title,omitempty"`
	FPS                   int              `json:"fps"`
	Settings              SnapshotSettings `json:"settings"`
	TotalDurationMs       int              `json:"total_duration_ms"`
	TotalDurationTimecode string           `json:"total_duration_timecode"`
	Scenes                []SnapshotScene  `json:"scenes"`
}

type SnapshotSettings struct {
	FrameMode           string `json:"frame_mode"`
	NarrationPreviewLen int    `json:"narration_preview_len"`
}

type SnapshotScene struct {
	SceneNumber   int            `json:"scene_number"`
	SceneTitle    string         `json:"scene_title"`
	StartMs       int            `json:"start_ms"`
	EndMs         int            `json:"end_ms"`
	StartTimecode string         `json:"start_timecode"`
	EndTimecode   string         `json:"end_timecode"`
	Shots         []SnapshotShot `json:"shots"`
}

type SnapshotShot struct {
	ShotNumber       int    `json:"shot_number"`
	StartMs          int    `json:"start_ms"`
	EndMs            int    `json:"end_ms"`
	DurationMs       int    `json:"duration_ms"`
	StartTimecode    string `json:"start_timecode"`
	EndTimecode      string `json:"end_timecode"`
	MediaRef         string `json:"media_ref,omitempty"`
	NarrationPreview string `json:"narration_preview,omitempty"`
}

func (e *SnapshotEncoder) Format() string    { return FormatSnapshot }
func (e *SnapshotEncoder) Extension() string { return ".json" }

func (e *SnapshotEncoder) Encode(tl *timeline.Timeline) ([]byte, error) {
	fps := tl.FPS

	snap := Snapshot{
		ProjectName:  tl.ProjectName,
		ProjectTitle: tl.ProjectTitle,
		FPS:          fps,
		Settings: SnapshotSettings{
			FrameMode:           "non-drop-frame",
			NarrationPreviewLen: timeline.NarrationPreviewLen,
		},
		TotalDurationMs:       tl.TotalMs,
		TotalDurationTimecode: timecode.FromMs(tl.TotalMs, fps),
		Scenes:                []SnapshotScene{},
	}

	var scene *SnapshotScene
	for _, seg := range tl.Segments {
		if scene == nil || scene.SceneNumber != seg.SceneNumber {
			snap.Scenes = append(snap.Scenes, SnapshotScene{
				SceneNumber:   seg.SceneNumber,
				SceneTitle:    seg.SceneTitle,
				StartMs:       seg.StartMs,
				StartTimecode: timecode.FromMs(seg.StartMs, fps),
			})
			scene = &snap.Scenes[len(snap.Scenes)-1]
		}

		scene.Shots = append(scene.Shots, SnapshotShot{
			ShotNumber:       seg.ShotNumber,
			StartMs:          seg.StartMs,
			EndMs:            seg.EndMs,
			DurationMs:       seg.EndMs - seg.StartMs,
			StartTimecode:    timecode.FromMs(seg.StartMs, fps),
			EndTimecode:      timecode.FromMs(seg.EndMs, fps),
			MediaRef:         seg.MediaRef,
			NarrationPreview: seg.Narration,
		})
		scene.EndMs = seg.EndMs
		scene.EndTimecode = timecode.FromMs(seg.EndMs, fps)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timeline snapshot: %w", err)
	}
	return append(data, '\n'), nil
}
