package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVConverter handles CSV files. Rows are grouped into batches, each batch
// becoming its own "## Rows a-b" section.
type CSVConverter struct{}

const csvBatchSize = 20

func (c *CSVConverter) Convert(r io.Reader, filename string) (Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("parse csv: %w", err)
	}

	doc := Document{Title: titleFromFilename(filename, ".csv")}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var sb strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		// 1-indexed, skip header
		fmt.Fprintf(&sb, "## Rows %d-%d\n\n", i+2, end+1)
		sb.WriteString("Columns: " + strings.Join(headers, ", "))
		for _, row := range dataRows[i:end] {
			sb.WriteString("\n")
			cells := make([]string, 0, len(row))
			for j, cell := range row {
				if j < len(headers) {
					cells = append(cells, headers[j]+": "+cell)
				} else {
					cells = append(cells, cell)
				}
			}
			sb.WriteString(strings.Join(cells, ", "))
		}
	}

	doc.Markdown = sb.String()
	return doc, nil
}
