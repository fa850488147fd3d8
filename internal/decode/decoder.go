package decode

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 marks a line whose bytes do not form valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// Line is one newline-delimited segment of device output. Either Text holds
// the trimmed decoded line, or Err explains why it could not be decoded.
type Line struct {
	Text string
	Err  error
}

// Decoder accumulates raw serial chunks and yields complete text lines.
// The zero value is ready to use.
type Decoder struct {
	buf bytes.Buffer
}

// Push appends a chunk and returns the lines it completed, in stream order.
// Undecodable segments are returned with Err set and are otherwise dropped;
// decoding never fails the stream. Bytes after the last newline stay
// buffered until the next chunk.
func (d *Decoder) Push(chunk []byte) []Line {
	d.buf.Write(chunk)

	var lines []Line
	for {
		raw := d.buf.Bytes()
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			return lines
		}
		seg := make([]byte, i)
		copy(seg, raw[:i])
		d.buf.Next(i + 1)

		if !utf8.Valid(seg) {
			lines = append(lines, Line{Err: ErrInvalidUTF8})
			continue
		}
		lines = append(lines, Line{Text: strings.TrimSpace(string(seg))})
	}
}

// Pending reports how many bytes are buffered awaiting a newline.
func (d *Decoder) Pending() int {
	return d.buf.Len()
}
