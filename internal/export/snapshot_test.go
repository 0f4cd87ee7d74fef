package export

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSnapshotEncoder_Encode(t *testing.T) {
	data, err := (&SnapshotEncoder{}).Encode(fixtureTimeline())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("output does not parse back: %v", err)
	}

	if snap.ProjectName != "demo" || snap.FPS != 30 {
		t.Errorf("header = %+v", snap)
	}
	if snap.Settings.FrameMode != "non-drop-frame" {
		t.Errorf("frame_mode = %q", snap.Settings.FrameMode)
	}
	if snap.Settings.NarrationPreviewLen != 50 {
		t.Errorf("narration_preview_len = %d, want 50", snap.Settings.NarrationPreviewLen)
	}
	if snap.TotalDurationMs != 9500 {
		t.Errorf("total_duration_ms = %d, want 9500", snap.TotalDurationMs)
	}
	if snap.TotalDurationTimecode != "00:00:09:15" {
		t.Errorf("total_duration_timecode = %q, want 00:00:09:15", snap.TotalDurationTimecode)
	}

	if len(snap.Scenes) != 2 {
		t.Fatalf("scenes = %d, want 2", len(snap.Scenes))
	}

	intro := snap.Scenes[0]
	if intro.StartMs != 0 || intro.EndMs != 8500 {
		t.Errorf("scene 1 span = [%d, %d), want [0, 8500)", intro.StartMs, intro.EndMs)
	}
	if len(intro.Shots) != 2 {
		t.Fatalf("scene 1 shots = %d, want 2", len(intro.Shots))
	}
	if got := intro.Shots[1].DurationMs; got != 3000 {
		t.Errorf("scene 1 shot 2 duration_ms = %d, want 3000", got)
	}
	if got := intro.Shots[1].MediaRef; got != "broll_city.mov" {
		t.Errorf("scene 1 shot 2 media_ref = %q", got)
	}

	payoff := snap.Scenes[1]
	if payoff.StartMs != 9000 || payoff.EndMs != 9500 {
		t.Errorf("scene 2 span = [%d, %d), want [9000, 9500)", payoff.StartMs, payoff.EndMs)
	}
}

func TestSnapshotEncoder_Deterministic(t *testing.T) {
	encoder := &SnapshotEncoder{}
	first, err := encoder.Encode(fixtureTimeline())
	if err != nil {
		t.Fatalf("first Encode() error = %v", err)
	}
	second, err := encoder.Encode(fixtureTimeline())
	if err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical timelines serialized to different bytes")
	}
}

// All three serializers must agree on the millisecond placements they were
// given; the snapshot is the reference.
func TestEncoders_AgreeOnTiming(t *testing.T) {
	tl := fixtureTimeline()

	snapData, err := (&SnapshotEncoder{}).Encode(tl)
	if err != nil {
		t.Fatalf("snapshot Encode() error = %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(snapData, &snap); err != nil {
		t.Fatalf("snapshot unmarshal error = %v", err)
	}

	edlData, err := (&EDLEncoder{}).Encode(tl)
	if err != nil {
		t.Fatalf("edl Encode() error = %v", err)
	}

	// The EDL renders the same totals through the timecode codec.
	if !bytes.Contains(edlData, []byte(snap.TotalDurationTimecode)) {
		t.Errorf("EDL does not contain total timecode %q", snap.TotalDurationTimecode)
	}
	for _, scene := range snap.Scenes {
		for _, shot := range scene.Shots {
			if !bytes.Contains(edlData, []byte(shot.StartTimecode)) {
				t.Errorf("EDL missing shot start timecode %q", shot.StartTimecode)
			}
		}
	}
}
