package flash

import "testing"

func TestDetectorMatchesMarkerSubstring(t *testing.T) {
	d := NewDetector("")

	cases := []struct {
		line string
		want bool
	}{
		{"Span Gateway 2.0.0 span-gateway", true},
		{"[boot] Span Gateway 2.0.0 span-gateway ready", true},
		{"span gateway 2.0.0 span-gateway", false}, // case sensitive
		{"Span Gateway 2.0.1 span-gateway", false},
		{"", false},
		{"unrelated output", false},
	}

	for _, c := range cases {
		if got := d.Match(c.line); got != c.want {
			t.Errorf("Match(%q): expected %v, got %v", c.line, c.want, got)
		}
	}
}

func TestDetectorCustomMarker(t *testing.T) {
	d := NewDetector("FLASH OK")

	if !d.Match("boot: FLASH OK, rebooting") {
		t.Error("expected custom marker to match")
	}
	if d.Match(Marker) {
		t.Error("expected default marker to be ignored with a custom one set")
	}
}
