// Package examples serves the built-in sample documents and the simplified
// snapshot of a page's body.
package examples

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed files/*.html
var files embed.FS

// CurrentPage names the page snapshot pseudo-example.
const CurrentPage = "current-page"

// Names lists the built-in examples in sorted order.
func Names() []string {
	entries, err := files.ReadDir("files")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".html"))
	}
	sort.Strings(names)
	return names
}

// Get returns the markup of a built-in example.
func Get(name string) (string, error) {
	data, err := files.ReadFile("files/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("unknown example %q", name)
	}
	return string(data), nil
}
