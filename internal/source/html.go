package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// HTMLLoader passes markup through, decoding it to UTF-8 from whatever
// encoding its BOM or meta tags declare.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename string) (string, error) {
	utf8Reader, err := charset.NewReader(r, "text/html")
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
