package source

import (
	"bufio"
	"io"
	"strings"
)

// TextLoader turns plain text into one paragraph per blank-line separated
// block.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	out := newOutline(filename)
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			out.para(current.String())
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	flush()
	return out.String(), nil
}
