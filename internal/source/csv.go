package source

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
)

// rowsPerBody groups data rows into <tbody> blocks.
const rowsPerBody = 20

// CSVLoader renders a CSV file as a table. The first record is the header.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	var b strings.Builder
	b.WriteString(`<table data-source="` + html.EscapeString(filepath.Base(filename)) + `">`)
	if len(records) == 0 {
		b.WriteString("</table>")
		return b.String(), nil
	}

	b.WriteString("<thead>")
	writeRow(&b, "th", records[0])
	b.WriteString("</thead>")

	rows := records[1:]
	for i := 0; i < len(rows); i += rowsPerBody {
		end := min(i+rowsPerBody, len(rows))
		// Row numbers are 1-indexed and count the header line.
		fmt.Fprintf(&b, `<tbody data-rows="%d-%d">`, i+2, end+1)
		for _, row := range rows[i:end] {
			writeRow(&b, "td", row)
		}
		b.WriteString("</tbody>")
	}
	b.WriteString("</table>")
	return b.String(), nil
}

func writeRow(b *strings.Builder, cell string, fields []string) {
	b.WriteString("<tr>")
	for _, f := range fields {
		b.WriteString("<" + cell + ">" + html.EscapeString(f) + "</" + cell + ">")
	}
	b.WriteString("</tr>")
}
