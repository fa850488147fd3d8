package decode

import (
	"testing"
)

func TestPushSplitsLines(t *testing.T) {
	var d Decoder

	lines := d.Push([]byte("boot ok\nloading kernel\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "boot ok" {
		t.Errorf("expected %q, got %q", "boot ok", lines[0].Text)
	}
	if lines[1].Text != "loading kernel" {
		t.Errorf("expected %q, got %q", "loading kernel", lines[1].Text)
	}
}

func TestPushBuffersPartialLine(t *testing.T) {
	var d Decoder

	if lines := d.Push([]byte("half a li")); len(lines) != 0 {
		t.Fatalf("expected no lines from partial chunk, got %d", len(lines))
	}
	if d.Pending() == 0 {
		t.Error("expected pending bytes after partial chunk")
	}

	lines := d.Push([]byte("ne\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "half a line" {
		t.Errorf("expected %q, got %q", "half a line", lines[0].Text)
	}
	if d.Pending() != 0 {
		t.Errorf("expected empty buffer, got %d pending bytes", d.Pending())
	}
}

func TestPushTrimsWhitespace(t *testing.T) {
	var d Decoder

	lines := d.Push([]byte("  status: ready \r\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "status: ready" {
		t.Errorf("expected trimmed text, got %q", lines[0].Text)
	}
}

func TestPushReportsInvalidUTF8(t *testing.T) {
	var d Decoder

	lines := d.Push([]byte("good\n\xff\xfe\xfd\nstill good\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Err != nil || lines[0].Text != "good" {
		t.Errorf("line 0: got (%q, %v)", lines[0].Text, lines[0].Err)
	}
	if lines[1].Err != ErrInvalidUTF8 {
		t.Errorf("line 1: expected ErrInvalidUTF8, got %v", lines[1].Err)
	}
	if lines[2].Err != nil || lines[2].Text != "still good" {
		t.Errorf("line 2: got (%q, %v)", lines[2].Text, lines[2].Err)
	}
}

func TestPushEmptyLine(t *testing.T) {
	var d Decoder

	lines := d.Push([]byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "" || lines[0].Err != nil {
		t.Errorf("expected empty valid line, got (%q, %v)", lines[0].Text, lines[0].Err)
	}
}
