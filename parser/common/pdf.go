package common

import (
	"log"
	"os"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ExtractText returns the text of every page joined with newlines.
// Pages that yield no text are skipped. Each page's text is built
// row by row, cells within a row separated by single spaces, so that
// label/value pairs stay on one line for pattern matching.
func ExtractText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", readError(path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", readError(path, err)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", readError(path, err)
	}

	var pages []string
	for no := 1; no <= reader.NumPage(); no++ {
		page := reader.Page(no)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("WARN no text from page %d of %s: %v", no, path, err)
			continue
		}

		var builder strings.Builder
		for _, row := range rows {
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}
			builder.WriteByte('\n')
		}

		if pageText := strings.TrimRight(builder.String(), "\n"); pageText != "" {
			pages = append(pages, pageText)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// ExtractFirstPageTables returns every table detected on page index 0,
// in table order with rows in order. Statements in scope carry their
// transaction table on the first page only. A document with no pages
// or no detected tables yields an empty slice, not an error.
func ExtractFirstPageTables(path string) ([]Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, readError(path, err)
	}
	defer file.Close()

	reader, err := model.NewPdfReader(file)
	if err != nil {
		return nil, readError(path, err)
	}

	if encrypted, _ := reader.IsEncrypted(); encrypted {
		if _, err := reader.Decrypt([]byte("")); err != nil {
			return nil, readError(path, err)
		}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, readError(path, err)
	}
	if numPages == 0 {
		return []Table{}, nil
	}

	page, err := reader.GetPage(1)
	if err != nil {
		return nil, readError(path, err)
	}

	ex, err := extractor.New(page)
	if err != nil {
		return nil, readError(path, err)
	}

	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return nil, readError(path, err)
	}

	tables := []Table{}
	for _, textTable := range pageText.Tables() {
		table := make(Table, 0, len(textTable.Cells))
		for _, cells := range textTable.Cells {
			row := make([]string, 0, len(cells))
			for _, cell := range cells {
				row = append(row, cell.Text)
			}
			table = append(table, row)
		}
		tables = append(tables, table)
	}

	return tables, nil
}
