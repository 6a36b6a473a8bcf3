// Package chase parses Chase credit card statement PDFs. Scalar
// fields come from ordered pattern lists applied to the whole
// document text; transactions come from the tables detected on the
// first page. All patterns live in the viper config under
// statement.CHASE_CC so they can be tuned without a code change.
package chase

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"cardstmt/parser/common"
)

// Issuer is the issuer tag stamped on every result this parser produces.
const Issuer = "Chase"

type config struct {
	CardLast4    common.FieldPatterns
	BillingCycle common.FieldPatterns
	DueDate      common.FieldPatterns
	TotalBalance common.FieldPatterns

	HeaderDates        []string
	HeaderDescriptions []string
	HeaderAmounts      []string
}

func loadConfig() config {
	return config{
		CardLast4:    common.MustCompilePatterns(viper.GetStringSlice("statement.CHASE_CC.patterns.card_last_4")),
		BillingCycle: common.MustCompilePatterns(viper.GetStringSlice("statement.CHASE_CC.patterns.billing_cycle")),
		DueDate:      common.MustCompilePatterns(viper.GetStringSlice("statement.CHASE_CC.patterns.due_date")),
		TotalBalance: common.MustCompilePatterns(viper.GetStringSlice("statement.CHASE_CC.patterns.total_balance")),

		HeaderDates:        viper.GetStringSlice("statement.CHASE_CC.table.header_dates"),
		HeaderDescriptions: viper.GetStringSlice("statement.CHASE_CC.table.header_descriptions"),
		HeaderAmounts:      viper.GetStringSlice("statement.CHASE_CC.table.header_amounts"),
	}
}

// Parser is the Chase statement parser.
type Parser struct{}

// Issuer returns the issuer tag this parser handles.
func (p *Parser) Issuer() string {
	return Issuer
}

// Parse extracts structured data from the statement at path. Missing
// scalar fields default to empty string or zero; rows that fail
// validation are dropped. Only a document that cannot be read at all
// fails the call, with a *common.DocumentReadError.
func (p *Parser) Parse(path string) (common.StatementResult, error) {
	cfg := loadConfig()

	text, err := common.ExtractText(path)
	if err != nil {
		return common.StatementResult{}, err
	}

	result := common.StatementResult{
		Issuer:       Issuer,
		CardLast4:    extractCardLast4(cfg, text),
		BillingCycle: extractBillingCycle(cfg, text),
		DueDate:      extractDueDate(cfg, text),
		TotalBalance: extractTotalBalance(cfg, text),
	}

	// The table pipeline reopens the document on its own handle. One
	// shot per statement, so the double read is not worth sharing a
	// reader across the two extraction libraries.
	tables, err := common.ExtractFirstPageTables(path)
	if err != nil {
		return common.StatementResult{}, err
	}
	result.Transactions = filterTransactions(cfg, tables)

	return result, nil
}

func extractCardLast4(cfg config, text string) string {
	if match := cfg.CardLast4.FirstSubmatch(text); len(match) > 1 {
		return match[1]
	}
	return ""
}

func extractBillingCycle(cfg config, text string) string {
	if match := cfg.BillingCycle.FirstSubmatch(text); len(match) > 2 {
		return strings.TrimSpace(match[1]) + " - " + strings.TrimSpace(match[2])
	}
	return ""
}

func extractDueDate(cfg config, text string) string {
	if match := cfg.DueDate.FirstSubmatch(text); len(match) > 1 {
		return match[1]
	}
	return ""
}

// extractTotalBalance walks the candidates itself rather than using
// FirstSubmatch: a candidate whose capture fails to parse falls
// through to the next one instead of ending the search.
func extractTotalBalance(cfg config, text string) decimal.Decimal {
	for _, pattern := range cfg.TotalBalance {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(match[1], ",", ""))
		if err != nil {
			continue
		}
		return amount
	}
	return decimal.Zero
}

// filterTransactions converts raw first-page tables into validated
// transactions, in scan order. Tables with fewer than two rows are
// header-only or empty and skipped whole. Row-level failures drop
// just that row; they never abort the batch.
func filterTransactions(cfg config, tables []common.Table) []common.Transaction {
	transactions := []common.Transaction{}

	for _, table := range tables {
		if len(table) < 2 {
			continue
		}

		for _, row := range table {
			if len(row) < 3 {
				continue
			}

			date := strings.TrimSpace(row[0])
			description := strings.TrimSpace(row[1])
			amount := strings.TrimSpace(row[2])

			// Header rows can reappear mid-table when the extractor
			// merges stacked tables, so every row is checked.
			if matchesAny(cfg.HeaderDates, date) ||
				matchesAny(cfg.HeaderDescriptions, description) ||
				matchesAny(cfg.HeaderAmounts, amount) {
				continue
			}

			if date == "" || description == "" || amount == "" {
				continue
			}

			value, err := common.NormalizeAmount(amount)
			if err != nil {
				log.Printf("WARN dropping row with non-numeric amount %q", amount)
				continue
			}

			transactions = append(transactions, common.Transaction{
				Date:        date,
				Description: description,
				Amount:      value,
			})
		}
	}

	return transactions
}

// matchesAny reports whether value is blank or equals one of the
// configured header labels, case-insensitively.
func matchesAny(labels []string, value string) bool {
	if value == "" {
		return true
	}
	lower := strings.ToLower(value)
	for _, label := range labels {
		if lower == strings.ToLower(label) {
			return true
		}
	}
	return false
}
