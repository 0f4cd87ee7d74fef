// Package export serializes a built timeline into editor interchange
// formats. Each format is an independent Encoder; none of them touches the
// storyboard model, and all timing in every output derives from the same
// segment sequence and frame rate.
package export

import (
	"fmt"

	"github.com/storycut/storycut-agent/internal/timeline"
)

const (
	FormatEDL      = "edl"
	FormatFCPXML   = "fcpxml"
	FormatSnapshot = "json"
)

// Encoder renders a timeline to bytes in one target format.
type Encoder interface {
	Format() string
	Extension() string
	Encode(tl *timeline.Timeline) ([]byte, error)
}

// ForFormat returns the encoder for a format identifier.
func ForFormat(format string) (Encoder, error) {
	switch format {
	case FormatEDL:
		return &EDLEncoder{}, nil
	case FormatFCPXML:
		return &FCPXMLEncoder{}, nil
	case FormatSnapshot:
		return &SnapshotEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Formats lists the supported format identifiers.
func Formats() []string {
	return []string{FormatEDL, FormatFCPXML, FormatSnapshot}
}
