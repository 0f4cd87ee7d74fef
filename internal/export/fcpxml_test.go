package export

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestRationalMs_RoundTrip(t *testing.T) {
	for _, ms := range []int{0, 1, 500, 8500, 3600000} {
		back, err := ParseRationalMs(RationalMs(ms))
		if err != nil {
			t.Fatalf("ParseRationalMs(%q) error = %v", RationalMs(ms), err)
		}
		if back != ms {
			t.Errorf("round trip of %dms = %dms", ms, back)
		}
	}
}

func TestParseRationalMs_OtherDenominators(t *testing.T) {
	got, err := ParseRationalMs("3/2s")
	if err != nil {
		t.Fatalf("ParseRationalMs(3/2s) error = %v", err)
	}
	if got != 1500 {
		t.Errorf("ParseRationalMs(3/2s) = %d, want 1500", got)
	}

	for _, bad := range []string{"", "5s", "a/bs", "1/0s"} {
		if _, err := ParseRationalMs(bad); err == nil {
			t.Errorf("ParseRationalMs(%q) succeeded, want error", bad)
		}
	}
}

func TestFCPXMLEncoder_Encode(t *testing.T) {
	data, err := (&FCPXMLEncoder{}).Encode(fixtureTimeline())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, xml.Header) {
		t.Error("output missing XML declaration")
	}
	if !strings.Contains(out, "<!DOCTYPE fcpxml>") {
		t.Error("output missing DOCTYPE")
	}

	var doc fcpxmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output does not parse back: %v", err)
	}

	// Three segment assets plus the full-mix audio asset.
	if got := len(doc.Resources.Assets); got != 4 {
		t.Fatalf("assets = %d, want 4", got)
	}
	audio := doc.Resources.Assets[3]
	if audio.Name != AudioMixClipName || audio.AudioSources != 1 {
		t.Errorf("audio asset = %+v", audio)
	}

	if len(doc.Library.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(doc.Library.Events))
	}
	event := doc.Library.Events[0]

	if got := len(event.Bins); got != 2 {
		t.Fatalf("bins = %d, want 2", got)
	}
	if event.Bins[0].Name != "Scene 1: INTRO" {
		t.Errorf("bin name = %q", event.Bins[0].Name)
	}
	if got := len(event.Bins[0].Clips); got != 2 {
		t.Errorf("scene 1 clip refs = %d, want 2", got)
	}

	seq := event.Projects[0].Sequence
	if seq.TCFormat != "NDF" {
		t.Errorf("tcFormat = %q, want NDF", seq.TCFormat)
	}
	if got := len(seq.Spine.Markers); got != 2 {
		t.Errorf("markers = %d, want 2", got)
	}
	if seq.Spine.Markers[1].Start != "9000/1000s" {
		t.Errorf("scene 2 marker start = %q, want 9000/1000s", seq.Spine.Markers[1].Start)
	}
}

// An external reader must recover exact milliseconds from the sequence and
// every placed clip.
func TestFCPXMLEncoder_TimesRecoverExactly(t *testing.T) {
	tl := fixtureTimeline()
	data, err := (&FCPXMLEncoder{}).Encode(tl)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var doc fcpxmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}

	seq := doc.Library.Events[0].Projects[0].Sequence
	total, err := ParseRationalMs(seq.Duration)
	if err != nil {
		t.Fatalf("sequence duration %q: %v", seq.Duration, err)
	}
	if total != tl.TotalMs {
		t.Errorf("sequence duration = %dms, want %dms", total, tl.TotalMs)
	}

	if got := len(seq.Spine.Clips); got != len(tl.Segments) {
		t.Fatalf("spine clips = %d, want %d", got, len(tl.Segments))
	}
	for i, clip := range seq.Spine.Clips {
		seg := tl.Segments[i]
		offset, err := ParseRationalMs(clip.Offset)
		if err != nil {
			t.Fatalf("clip %d offset %q: %v", i, clip.Offset, err)
		}
		duration, err := ParseRationalMs(clip.Duration)
		if err != nil {
			t.Fatalf("clip %d duration %q: %v", i, clip.Duration, err)
		}
		if offset != seg.StartMs {
			t.Errorf("clip %d offset = %dms, want %dms", i, offset, seg.StartMs)
		}
		if duration != seg.EndMs-seg.StartMs {
			t.Errorf("clip %d duration = %dms, want %dms", i, duration, seg.EndMs-seg.StartMs)
		}
	}

	audio := seq.Audio.Clips[0]
	audioDur, err := ParseRationalMs(audio.Duration)
	if err != nil {
		t.Fatalf("audio duration %q: %v", audio.Duration, err)
	}
	if audioDur != tl.TotalMs {
		t.Errorf("audio lane duration = %dms, want %dms", audioDur, tl.TotalMs)
	}
}
