// Package source loads documents of several formats as markup, so that any
// supported file can be fed to the tree builder.
package source

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader converts raw document bytes into markup text.
type Loader interface {
	Load(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions that have a loader.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// LoadFile reads the file at path with the loader matching its extension.
func LoadFile(path string) (string, error) {
	loader, err := ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return loader.Load(f, filepath.Base(path))
}

// outline writes an <article> whose headings open nested <section>
// elements. A heading closes every open section at its level or deeper.
type outline struct {
	b      strings.Builder
	levels []int
}

func newOutline(filename string) *outline {
	o := &outline{}
	o.b.WriteString(`<article data-source="`)
	o.b.WriteString(html.EscapeString(filepath.Base(filename)))
	o.b.WriteString(`">`)
	return o
}

func (o *outline) heading(level int, text string) {
	for len(o.levels) > 0 && o.levels[len(o.levels)-1] >= level {
		o.b.WriteString("</section>")
		o.levels = o.levels[:len(o.levels)-1]
	}
	tag := "h" + strconv.Itoa(level)
	o.b.WriteString("<section><" + tag + ">" + html.EscapeString(text) + "</" + tag + ">")
	o.levels = append(o.levels, level)
}

// para writes text as a paragraph; line breaks become <br>.
func (o *outline) para(text string) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = html.EscapeString(l)
	}
	o.b.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
}

func (o *outline) raw(markup string) {
	o.b.WriteString(markup)
}

func (o *outline) String() string {
	for range o.levels {
		o.b.WriteString("</section>")
	}
	o.levels = nil
	o.b.WriteString("</article>")
	return o.b.String()
}
