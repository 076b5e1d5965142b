package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ItemRow is one job opening parsed from a recruitment advertisement table.
type ItemRow struct {
	ItemNo                 string
	Discipline             string
	EssentialQualification string
	GateCode               string
}

// Advertisement tables render rows as "<no>. <discipline> | <qualification>
// | <gate code>" or with wide column gaps once the PDF text layer is
// flattened.
var (
	rowPattern    = regexp.MustCompile(`^\s*(\d+)[.)]?\s+(.+)$`)
	columnSplit   = regexp.MustCompile(`\s*\|\s*|\s{3,}`)
	gateCodeShape = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ExtractItemsFromPDF pulls job-opening rows out of an advertisement PDF.
// Pages that fail to extract are skipped; an advertisement with no parseable
// rows is an error.
func ExtractItemsFromPDF(path string) ([]ItemRow, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var rows []ItemRow
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
			continue
		}
		rows = append(rows, parseItemRows(text)...)
	}

	if len(rows) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to extract items: %w", lastErr)
		}
		return nil, fmt.Errorf("no item rows found in PDF")
	}

	return rows, nil
}

func parseItemRows(pageText string) []ItemRow {
	var rows []ItemRow

	for _, line := range strings.Split(pageText, "\n") {
		m := rowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		columns := columnSplit.Split(strings.TrimSpace(m[2]), -1)
		if len(columns) < 2 {
			continue
		}

		row := ItemRow{
			ItemNo:     m[1],
			Discipline: strings.TrimSpace(columns[0]),
		}

		rest := columns[1:]
		// A trailing two-letter uppercase column is the GATE paper code.
		if last := strings.TrimSpace(rest[len(rest)-1]); gateCodeShape.MatchString(last) {
			row.GateCode = last
			rest = rest[:len(rest)-1]
		}
		row.EssentialQualification = strings.TrimSpace(strings.Join(rest, " "))

		if row.Discipline == "" || row.EssentialQualification == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}
