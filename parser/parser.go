// Package parser dispatches statement files to issuer-specific
// parsers. Variants register here and are selected by issuer tag.
package parser

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cardstmt/parser/chase"
	"cardstmt/parser/common"
)

// DefaultIssuer is used when the caller does not pick one.
const DefaultIssuer = "chase"

// Parser is the capability every issuer variant provides.
type Parser interface {
	// Parse reads the PDF at path and returns the structured
	// statement data, or a *common.DocumentReadError when the file
	// cannot be read as a PDF.
	Parse(path string) (common.StatementResult, error)
	// Issuer returns the issuer tag the variant handles.
	Issuer() string
}

var registry = map[string]func() Parser{
	"chase": func() Parser { return &chase.Parser{} },
}

// ForIssuer returns a parser for the given issuer tag,
// case-insensitively. An empty tag selects DefaultIssuer.
func ForIssuer(issuer string) (Parser, error) {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	build, ok := registry[strings.ToLower(issuer)]
	if !ok {
		return nil, fmt.Errorf("unknown issuer %q (known: %s)", issuer, strings.Join(Issuers(), ", "))
	}
	return build(), nil
}

// Issuers lists the registered issuer tags, sorted.
func Issuers() []string {
	issuers := make([]string, 0, len(registry))
	for issuer := range registry {
		issuers = append(issuers, issuer)
	}
	sort.Strings(issuers)
	return issuers
}

// ExecuteAgainstPath parses the file at path, or every PDF directly
// inside it when path is a directory, and prints the result(s) as
// JSON on stdout. In directory mode unreadable files are logged and
// skipped; for a single file the error propagates.
func ExecuteAgainstPath(path string, issuer string) error {
	p, err := ForIssuer(issuer)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		log.Println("📄 Parsing", path)
		result, err := p.Parse(path)
		if err != nil {
			return err
		}
		return printJSON(result)
	}

	log.Println("📂 Scanning", path)
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	results := []common.StatementResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		target := filepath.Join(path, entry.Name())
		log.Println("\t📄 Parsing", target)
		result, err := p.Parse(target)
		if err != nil {
			log.Printf("WARN skipping %s: %v", target, err)
			continue
		}
		results = append(results, result)
	}

	return printJSON(results)
}

func printJSON(v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
