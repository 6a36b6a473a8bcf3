package common

import (
	"github.com/shopspring/decimal"
)

// StatementResult is the structured output of one parse call. It is
// assembled in one shot and never mutated afterwards.
type StatementResult struct {
	Issuer       string          `json:"issuer"`
	CardLast4    string          `json:"card_last_4"`
	BillingCycle string          `json:"billing_cycle"`
	DueDate      string          `json:"due_date"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Transactions []Transaction   `json:"transactions"`
}

// Transaction is a single validated row from the statement's
// transaction table. Date and Description are kept as the raw cell
// text after trimming.
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Table is one detected table: rows of positional cells.
type Table [][]string
