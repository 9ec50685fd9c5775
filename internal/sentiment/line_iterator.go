package sentiment

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

// MAX_LINE_BYTES bounds a single line; longer lines fail the read.
const MAX_LINE_BYTES = 4 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LineIterator walks a reader one line at a time. It is single pass:
// once Next has returned io.EOF or an error it keeps returning it.
type LineIterator struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

func NewLineIterator(r io.Reader) *LineIterator {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_BYTES)
	scanner.Split(scanUniversalLines)
	return &LineIterator{scanner: scanner}
}

// Next returns the next decoded line. The returned line number is 1-based.
func (it *LineIterator) Next() (string, int, error) {
	if it.err != nil {
		return "", it.line, it.err
	}

	if !it.scanner.Scan() {
		it.err = io.EOF
		if err := it.scanner.Err(); err != nil {
			it.err = &ReadError{Line: it.line + 1, Err: err}
		}
		return "", it.line, it.err
	}
	it.line++

	raw := it.scanner.Bytes()
	if it.line == 1 {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}
	if !utf8.Valid(raw) {
		it.err = &ReadError{Line: it.line, Err: ErrInvalidUTF8}
		return "", it.line, it.err
	}

	return string(raw), it.line, nil
}

// scanUniversalLines splits on "\n", "\r\n" and a lone "\r".
func scanUniversalLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing "\r" may be the first half of "\r\n".
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
