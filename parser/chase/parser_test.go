package chase

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardstmt/parser/common"
)

// Mock config for tests - matches the embedded default config structure
const testConfigYAML = `
statement:
  CHASE_CC:
    issuer: Chase
    patterns:
      card_last_4:
        - '\*{4}(\d{4})'
        - 'ending in (\d{4})'
        - 'card ending (\d{4})'
        - 'account ending (\d{4})'
      billing_cycle:
        - 'statement period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
        - 'billing period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
        - 'period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
      due_date:
        - 'due date[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
        - 'payment due[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
        - 'due[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
      total_balance:
        - 'total balance[:\s]+\$?([\d,]+\.?\d*)'
        - 'current balance[:\s]+\$?([\d,]+\.?\d*)'
        - 'balance[:\s]+\$?([\d,]+\.?\d*)'
    table:
      header_dates:
        - date
        - transaction date
      header_descriptions:
        - description
        - merchant
      header_amounts:
        - amount
`

func setupTestConfig(t *testing.T) config {
	t.Helper()
	viper.Reset()
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(bytes.NewBufferString(testConfigYAML)))
	return loadConfig()
}

// Synthetic statement text mimicking a real first page.
const sampleText = `CHASE CARD SERVICES
Statement for account ****9999
Statement Period: 01/01/2024 - 01/31/2024
Payment Information
Due Date: 02/15/2024
Total Balance: $1,234.56
Minimum Payment Due: $40.00`

func TestExtractCardLast4(t *testing.T) {
	cfg := setupTestConfig(t)

	assert.Equal(t, "9999", extractCardLast4(cfg, sampleText))
	assert.Equal(t, "1234", extractCardLast4(cfg, "Your card ending in 1234"))
	assert.Equal(t, "4321", extractCardLast4(cfg, "ACCOUNT ENDING 4321"))
	assert.Equal(t, "", extractCardLast4(cfg, "no card reference here"))
}

func TestExtractCardLast4_AsteriskPatternWins(t *testing.T) {
	cfg := setupTestConfig(t)

	// Both forms present: the asterisk pattern is checked first even
	// when the other label appears earlier in the text.
	text := "card ending in 1234 also shown as ****5678"
	assert.Equal(t, "5678", extractCardLast4(cfg, text))
}

func TestExtractBillingCycle(t *testing.T) {
	cfg := setupTestConfig(t)

	assert.Equal(t, "01/01/2024 - 01/31/2024", extractBillingCycle(cfg, sampleText))
	assert.Equal(t, "Feb 1 - Feb 28", extractBillingCycle(cfg, "Billing Period:  Feb 1 - Feb 28 "))
	// Generic fallback is only consulted when the labeled forms miss.
	assert.Equal(t, "X - Y", extractBillingCycle(cfg, "period: X - Y"))
	assert.Equal(t, "", extractBillingCycle(cfg, "no cycle in this text"))
}

func TestExtractDueDate(t *testing.T) {
	cfg := setupTestConfig(t)

	assert.Equal(t, "02/15/2024", extractDueDate(cfg, sampleText))
	assert.Equal(t, "3/5/2024", extractDueDate(cfg, "Payment Due: 3/5/2024"))
	assert.Equal(t, "12/01/2024", extractDueDate(cfg, "due: 12/01/2024"))
	assert.Equal(t, "", extractDueDate(cfg, "due: tomorrow"))
}

func TestExtractTotalBalance(t *testing.T) {
	cfg := setupTestConfig(t)

	assert.True(t, decimal.RequireFromString("1234.56").Equal(extractTotalBalance(cfg, sampleText)))
	assert.True(t, decimal.RequireFromString("88.20").Equal(extractTotalBalance(cfg, "Current Balance: 88.20")))
	assert.True(t, decimal.RequireFromString("12.00").Equal(extractTotalBalance(cfg, "rewards balance: $12.00")))
}

func TestExtractTotalBalance_NoMatch(t *testing.T) {
	cfg := setupTestConfig(t)

	assert.True(t, extractTotalBalance(cfg, "no money talk here").IsZero())
}

func TestFilterTransactions_EndToEnd(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"Date", "Description", "Amount"},
			{"01/05/2024", "Coffee Shop", "$4.50"},
			{"01/10/2024", "Grocery", "$88.20"},
		},
	}

	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 2)
	assert.Equal(t, "01/05/2024", txs[0].Date)
	assert.Equal(t, "Coffee Shop", txs[0].Description)
	assert.True(t, decimal.RequireFromString("4.50").Equal(txs[0].Amount))
	assert.Equal(t, "Grocery", txs[1].Description)
	assert.True(t, decimal.RequireFromString("88.20").Equal(txs[1].Amount))
}

func TestFilterTransactions_HeaderSuppression(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"Date", "Description", "Amount"},
			{"01/05/2024", "Coffee Shop", "$4.50"},
			{"DATE", "DESCRIPTION", "AMOUNT"},
			{"Transaction Date", "Merchant", "Amount"},
			{"DATE", "desc", ""},
			{"01/06/2024", "Bakery", "$2.00"},
		},
	}

	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 2)
	assert.Equal(t, "Coffee Shop", txs[0].Description)
	assert.Equal(t, "Bakery", txs[1].Description)
}

func TestFilterTransactions_ShortTableSkipped(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{{"01/05/2024", "Lone Row", "$4.50"}},
	}

	assert.Empty(t, filterTransactions(cfg, tables))
}

func TestFilterTransactions_ShortRowsSkipped(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"01/05/2024", "Coffee Shop"},
			{"01/06/2024", "Bakery", "$2.00"},
		},
	}

	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 1)
	assert.Equal(t, "Bakery", txs[0].Description)
}

func TestFilterTransactions_GarbageAmountIsolated(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"01/05/2024", "Coffee Shop", "$4.50"},
			{"01/07/2024", "Pending Hold", "N/A"},
			{"01/10/2024", "Grocery", "$88.20"},
		},
	}

	// The bad row is dropped without affecting its neighbours.
	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 2)
	assert.Equal(t, "Coffee Shop", txs[0].Description)
	assert.Equal(t, "Grocery", txs[1].Description)
}

func TestFilterTransactions_NegativeAmount(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"01/05/2024", "Payment Received", "-$50.00"},
			{"01/10/2024", "Grocery", "$1,234.56"},
		},
	}

	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 2)
	assert.True(t, decimal.RequireFromString("-50.00").Equal(txs[0].Amount))
	assert.True(t, decimal.RequireFromString("1234.56").Equal(txs[1].Amount))
}

func TestFilterTransactions_WhitespaceCellsDropped(t *testing.T) {
	cfg := setupTestConfig(t)

	tables := []common.Table{
		{
			{"  ", "Coffee Shop", "$4.50"},
			{"01/06/2024", "   ", "$2.00"},
			{"01/07/2024", "Bakery", "  "},
			{"01/08/2024", "Grocery", "$3.00"},
		},
	}

	txs := filterTransactions(cfg, tables)
	require.Len(t, txs, 1)
	assert.Equal(t, "Grocery", txs[0].Description)
}

func TestParser_Issuer(t *testing.T) {
	p := &Parser{}
	assert.Equal(t, "Chase", p.Issuer())
}

func TestParse_UnreadableFilePropagates(t *testing.T) {
	setupTestConfig(t)

	p := &Parser{}
	_, err := p.Parse(t.TempDir() + "/missing.pdf")
	require.Error(t, err)

	var readErr *common.DocumentReadError
	assert.ErrorAs(t, err, &readErr)
}
