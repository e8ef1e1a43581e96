package tracer

import "bytes"

// maxLine bounds a held partial line; longer runs without a newline are emitted as they are.
const maxLine = 64 << 10

// lineBuffer splits a byte stream into lines, holding a trailing partial line until its
// newline arrives or the stream ends.
type lineBuffer struct {
	pending []byte
}

// feed appends chunk and returns the complete lines it finished, without line terminators.
func (b *lineBuffer) feed(chunk []byte) []string {
	b.pending = append(b.pending, chunk...)
	var lines []string
	for {
		i := bytes.IndexByte(b.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, trimCR(b.pending[:i]))
		b.pending = b.pending[i+1:]
	}
	if len(b.pending) >= maxLine {
		lines = append(lines, string(b.pending))
		b.pending = nil
	}
	if len(b.pending) == 0 {
		b.pending = nil
	}
	return lines
}

// flush returns the held partial line, if there is one.
func (b *lineBuffer) flush() (string, bool) {
	if len(b.pending) == 0 {
		return "", false
	}
	line := trimCR(b.pending)
	b.pending = nil
	return line, true
}

func trimCR(line []byte) string {
	return string(bytes.TrimSuffix(line, []byte{'\r'}))
}
