package flash

import "strings"

// Marker is the banner the gateway prints once its new firmware boots. Seeing
// it is the only confirmation of a successful flash we get.
const Marker = "Span Gateway 2.0.0 span-gateway"

// Detector matches decoded lines against the completion marker. The match is
// a case-sensitive substring test; the session latches the resulting signal
// so it fires at most once however often the marker appears.
type Detector struct {
	marker string
}

// NewDetector returns a detector for the given marker, or for the default
// gateway banner when marker is empty.
func NewDetector(marker string) Detector {
	if marker == "" {
		marker = Marker
	}
	return Detector{marker: marker}
}

// Match reports whether the line contains the completion marker.
func (d Detector) Match(line string) bool {
	return strings.Contains(line, d.marker)
}
