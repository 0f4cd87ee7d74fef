package export

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/storycut/storycut-agent/internal/timeline"
)

// FCPXMLEncoder emits the rich structural format: one asset resource per
// segment plus the full-mix audio, one bin per scene referencing its clips,
// a sequence with clips placed at absolute offsets, and one marker per scene
// boundary. All times are rationals on a milliseconds basis so an external
// reader recovers the builder's exact millisecond values.
type FCPXMLEncoder struct {
	Width  int
	Height int
}

const (
	fcpxmlVersion      = "1.9"
	defaultFrameWidth  = 1920
	defaultFrameHeight = 1080
	markerColor        = "Blue"
)

type fcpxmlDoc struct {
	XMLName   xml.Name      `xml:"fcpxml"`
	Version   string        `xml:"version,attr"`
	Resources fcpxmlRes     `xml:"resources"`
	Library   fcpxmlLibrary `xml:"library"`
}

type fcpxmlRes struct {
	Formats []fcpxmlFormat `xml:"format"`
	Assets  []fcpxmlAsset  `xml:"asset"`
}

type fcpxmlFormat struct {
	ID            string `xml:"id,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpxmlAsset struct {
	ID           string `xml:"id,attr"`
	Name         string `xml:"name,attr"`
	Src          string `xml:"src,attr"`
	Duration     string `xml:"duration,attr,omitempty"`
	AudioSources int    `xml:"audioSources,attr,omitempty"`
}

type fcpxmlLibrary struct {
	Events []fcpxmlEvent `xml:"event"`
}

type fcpxmlEvent struct {
	Name     string          `xml:"name,attr"`
	Bins     []fcpxmlBin     `xml:"bin"`
	Projects []fcpxmlProject `xml:"project"`
}

type fcpxmlBin struct {
	Name  string          `xml:"name,attr"`
	Clips []fcpxmlClipRef `xml:"clip-ref"`
}

type fcpxmlClipRef struct {
	Ref string `xml:"ref,attr"`
}

type fcpxmlProject struct {
	Name     string         `xml:"name,attr"`
	Sequence fcpxmlSequence `xml:"sequence"`
}

type fcpxmlSequence struct {
	Format   string          `xml:"format,attr"`
	Duration string          `xml:"duration,attr"`
	TCFormat string          `xml:"tcFormat,attr"`
	Spine    fcpxmlSpine     `xml:"spine"`
	Audio    fcpxmlAudioLane `xml:"audio"`
}

type fcpxmlSpine struct {
	Markers []fcpxmlMarker    `xml:"marker"`
	Clips   []fcpxmlAssetClip `xml:"asset-clip"`
}

type fcpxmlMarker struct {
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
	Value    string `xml:"value,attr"`
	Note     string `xml:"note,attr,omitempty"`
	Color    string `xml:"color,attr,omitempty"`
}

type fcpxmlAssetClip struct {
	Ref      string `xml:"ref,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Offset   string `xml:"offset,attr"`
	Duration string `xml:"duration,attr"`
}

type fcpxmlAudioLane struct {
	Lane  int               `xml:"lane,attr"`
	Clips []fcpxmlAssetClip `xml:"asset-clip"`
}

func (e *FCPXMLEncoder) Format() string    { return FormatFCPXML }
func (e *FCPXMLEncoder) Extension() string { return ".fcpxml" }

// RationalMs renders a millisecond value as an FCPXML rational time.
func RationalMs(ms int) string {
	return fmt.Sprintf("%d/1000s", ms)
}

// ParseRationalMs reads back a rational time written by RationalMs.
func ParseRationalMs(s string) (int, error) {
	trimmed := strings.TrimSuffix(s, "s")
	num, den, ok := strings.Cut(trimmed, "/")
	if !ok {
		return 0, fmt.Errorf("not a rational time: %q", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("not a rational time: %q", s)
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("not a rational time: %q", s)
	}
	return n * 1000 / d, nil
}

func (e *FCPXMLEncoder) Encode(tl *timeline.Timeline) ([]byte, error) {
	width, height := e.Width, e.Height
	if width <= 0 {
		width = defaultFrameWidth
	}
	if height <= 0 {
		height = defaultFrameHeight
	}

	frameDuration := fmt.Sprintf("1/%ds", tl.FPS)

	doc := fcpxmlDoc{
		Version: fcpxmlVersion,
		Resources: fcpxmlRes{
			Formats: []fcpxmlFormat{{
				ID:            "r1",
				FrameDuration: frameDuration,
				Width:         width,
				Height:        height,
			}},
		},
	}

	spine := fcpxmlSpine{}
	bins := []fcpxmlBin{}
	var bin *fcpxmlBin

	currentScene := 0
	for i, seg := range tl.Segments {
		assetID := fmt.Sprintf("a%d", i+1)
		name := seg.MediaRef
		if name == "" {
			name = fmt.Sprintf("scene_%02d_shot_%02d", seg.SceneNumber, seg.ShotNumber)
		}

		doc.Resources.Assets = append(doc.Resources.Assets, fcpxmlAsset{
			ID:       assetID,
			Name:     name,
			Src:      name,
			Duration: RationalMs(seg.EndMs - seg.StartMs),
		})

		if seg.SceneNumber != currentScene {
			currentScene = seg.SceneNumber
			bins = append(bins, fcpxmlBin{
				Name: fmt.Sprintf("Scene %d: %s", seg.SceneNumber, seg.SceneTitle),
			})
			bin = &bins[len(bins)-1]

			spine.Markers = append(spine.Markers, fcpxmlMarker{
				Start:    RationalMs(seg.StartMs),
				Duration: frameDuration,
				Value:    fmt.Sprintf("Scene %d", seg.SceneNumber),
				Note:     seg.SceneTitle,
				Color:    markerColor,
			})
		}
		bin.Clips = append(bin.Clips, fcpxmlClipRef{Ref: assetID})

		spine.Clips = append(spine.Clips, fcpxmlAssetClip{
			Ref:      assetID,
			Name:     name,
			Offset:   RationalMs(seg.StartMs),
			Duration: RationalMs(seg.EndMs - seg.StartMs),
		})
	}

	doc.Resources.Assets = append(doc.Resources.Assets, fcpxmlAsset{
		ID:           "audio1",
		Name:         AudioMixClipName,
		Src:          AudioMixClipName,
		Duration:     RationalMs(tl.TotalMs),
		AudioSources: 1,
	})

	doc.Library.Events = []fcpxmlEvent{{
		Name: tl.ProjectTitle,
		Bins: bins,
		Projects: []fcpxmlProject{{
			Name: tl.ProjectTitle + "_Timeline",
			Sequence: fcpxmlSequence{
				Format:   "r1",
				Duration: RationalMs(tl.TotalMs),
				TCFormat: "NDF",
				Spine:    spine,
				Audio: fcpxmlAudioLane{
					Lane: 1,
					Clips: []fcpxmlAssetClip{{
						Ref:      "audio1",
						Offset:   RationalMs(0),
						Duration: RationalMs(tl.TotalMs),
					}},
				},
			},
		}},
	}}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fcpxml: %w", err)
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE fcpxml>\n")
	b.Write(body)
	b.WriteString("\n")
	return []byte(b.String()), nil
}
