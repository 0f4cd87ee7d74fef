package export

import (
	"fmt"
	"strings"

	"github.com/storycut/storycut-agent/internal/timecode"
	"github.com/storycut/storycut-agent/internal/timeline"
)

// AudioMixClipName names the full-mix narration clip referenced by the
// trailing audio record.
const AudioMixClipName = "full_narration.mp3"

// EDLEncoder emits a CMX 3600-style cut list: one video record per segment,
// a scene marker comment before each scene's first record, and one audio
// record spanning the whole timeline. Record numbers run sequentially from
// 001 across the project.
type EDLEncoder struct{}

func (e *EDLEncoder) Format() string    { return FormatEDL }
func (e *EDLEncoder) Extension() string { return ".edl" }

func (e *EDLEncoder) Encode(tl *timeline.Timeline) ([]byte, error) {
	fps := tl.FPS

	lines := []string{
		fmt.Sprintf("TITLE: %s", tl.ProjectTitle),
		"FCM: NON-DROP FRAME",
		"",
	}

	record := 1
	currentScene := 0
	for _, seg := range tl.Segments {
		if seg.SceneNumber != currentScene {
			currentScene = seg.SceneNumber
			lines = append(lines,
				fmt.Sprintf("* MARKER: SCENE %d - %s", seg.SceneNumber, seg.SceneTitle),
				"",
			)
		}

		durationMs := seg.EndMs - seg.StartMs
		clipName := seg.MediaRef
		if clipName == "" {
			clipName = fmt.Sprintf("scene_%02d_shot_%02d", seg.SceneNumber, seg.ShotNumber)
		}

		// Source range is a placeholder from zero to the clip's own length;
		// the destination range is the segment's absolute placement.
		lines = append(lines, eventLine(record, "V", 0, durationMs, seg.StartMs, seg.EndMs, fps))
		lines = append(lines, fmt.Sprintf("* FROM CLIP NAME:  %s", clipName))
		if seg.Narration != "" {
			lines = append(lines, fmt.Sprintf("* NARRATION: %s", seg.Narration))
		}
		lines = append(lines, "")
		record++
	}

	lines = append(lines,
		"* AUDIO TRACK",
		"",
		eventLine(record, "AA", 0, tl.TotalMs, 0, tl.TotalMs, fps),
		fmt.Sprintf("* FROM CLIP NAME:  %s", AudioMixClipName),
		"",
	)

	return []byte(strings.Join(lines, "\n")), nil
}

func eventLine(record int, track string, srcInMs, srcOutMs, recInMs, recOutMs, fps int) string {
	return fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s",
		record, "AX", track,
		timecode.FromMs(srcInMs, fps),
		timecode.FromMs(srcOutMs, fps),
		timecode.FromMs(recInMs, fps),
		timecode.FromMs(recOutMs, fps),
	)
}
