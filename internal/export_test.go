package internal

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseOutputArg(t *testing.T) {
	tests := []struct {
		arg        string
		wantFormat string
		wantPath   string
	}{
		{"screenshot-data.json", "json", "screenshot-data.json"},
		{"out/fixture.xlsx", "xlsx", "out/fixture.xlsx"},
		{"fixture.db", "sqlite", "fixture.db"},
		{"fixture.SQLITE3", "sqlite", "fixture.SQLITE3"},
		{"json:fixture.db", "json", "fixture.db"},
		{"xlsx:report", "xlsx", "report"},
		{"sqlite:/tmp/fixture", "sqlite", "/tmp/fixture"},
		{`C:\out\data.json`, "json", `C:\out\data.json`},
		{"fixture", "json", "fixture"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			format, path := ParseOutputArg(tt.arg)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestExporterRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "sqlite", "xlsx"}, AvailableFormats())

	_, err := GetExporter("csv")
	assert.ErrorContains(t, err, "unknown output format")

	e, err := GetExporter("json")
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func smallFixture() *Fixture {
	day := NewTimestamp(time.Date(2025, 3, 4, 12, 30, 0, 0, time.UTC))
	return &Fixture{
		ExportDate: NewTimestamp(time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)),
		AppVersion: "1.0",
		Accounts:   []Account{DefaultAccounts[0], DefaultAccounts[2]},
		Categories: []Category{DefaultCategories[9], DefaultCategories[10]},
		BudgetMonths: []BudgetMonth{
			{Month: NewTimestamp(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))},
		},
		BudgetAllocations: []BudgetAllocation{
			{Budgeted: MustAmount("686.00"), CategoryName: "Groceries", Month: NewTimestamp(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)), CategoryParent: "Living"},
		},
		Transactions: []Transaction{
			{Amount: MustAmount("42.10"), Payee: "M&S Food", Date: day, Type: TypeExpense, IsCleared: true,
				AccountName: CreditCard, CategoryName: "Groceries", CategoryParent: "Living"},
			{Amount: MustAmount("42.10"), Payee: transferPayee, Date: day, Type: TypeTransfer, IsCleared: true,
				AccountName: JointCurrent, TransferToAccountName: CreditCard},
		},
		Payees: []Payee{
			{Name: "M&S Food", LastUsedDate: day, UseCount: 1, LastUsedCategoryName: "Groceries"},
		},
	}
}

func TestWriteJSON_FieldsAndEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, smallFixture()))
	out := buf.String()

	assert.Contains(t, out, `"payee": "M&S Food"`)
	assert.NotContains(t, out, `\u0026`)
	assert.Contains(t, out, `"amount": "42.10"`)
	assert.Contains(t, out, `"date": "2025-03-04T12:30:00Z"`)
	assert.Contains(t, out, `"transferToAccountName": "Credit Card"`)
	assert.Contains(t, out, "\n  \"exportDate\"")

	// top-level key order
	keys := []string{"exportDate", "appVersion", "accounts", "transactions", "categories", "budgetMonths", "budgetAllocations", "payees"}
	last := -1
	for _, k := range keys {
		idx := strings.Index(out, `"`+k+`"`)
		require.Greater(t, idx, last, k)
		last = idx
	}

	// optional fields are omitted on transfers and top-level categories
	assert.NotContains(t, out, `"categoryName": ""`)
	assert.NotContains(t, out, `"parentName": ""`)
}

func TestExportJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fixture.json")
	f := smallFixture()
	require.NoError(t, ExportJSON(path, f))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	back, err := ReadFixture(path)
	require.NoError(t, err)
	require.Len(t, back.Transactions, 2)
	assert.Equal(t, "42.10", back.Transactions[0].Amount.String())
	assert.Equal(t, "M&S Food", back.Transactions[0].Payee)
	assert.Equal(t, CreditCard, back.Transactions[1].TransferToAccountName)
	assert.True(t, back.ExportDate.Equal(f.ExportDate.Time))
	assert.Equal(t, f.Categories[1].Emoji, back.Categories[1].Emoji)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadFixture_Errors(t *testing.T) {
	_, err := ReadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions": [{"amount": 12.5}]}`), 0644))
	_, err = ReadFixture(bad)
	assert.ErrorContains(t, err, "parsing JSON")
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	f := smallFixture()
	require.NoError(t, ExportXLSX(path, f))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t,
		[]string{"Accounts", "Transactions", "Categories", "BudgetMonths", "BudgetAllocations", "Payees"},
		wb.GetSheetList())

	rows, err := wb.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, len(f.Transactions)+1)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "amount", rows[0][1])
	assert.Equal(t, "M&S Food", rows[1][2])

	payees, err := wb.GetRows("Payees")
	require.NoError(t, err)
	require.Len(t, payees, 2)
	assert.Equal(t, "M&S Food", payees[1][1])
}

func TestExportSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.db")
	f, _ := generateDefault(t, GeneratorOptions{Seed: 42, WithIDs: true})

	// exporting twice replaces the database
	require.NoError(t, ExportSQLite(path, f))
	require.NoError(t, ExportSQLite(path, f))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp databases left behind")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	counts := map[string]int{
		"accounts":           len(f.Accounts),
		"categories":         len(f.Categories),
		"budget_months":      len(f.BudgetMonths),
		"budget_allocations": len(f.BudgetAllocations),
		"transactions":       len(f.Transactions),
		"payees":             len(f.Payees),
	}
	for table, want := range counts {
		var got int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&got), table)
		assert.Equal(t, want, got, table)
	}

	var total string
	require.NoError(t, db.QueryRow(
		`SELECT amount FROM transactions WHERE type = 'Income' ORDER BY date LIMIT 1`).Scan(&total))
	assert.Equal(t, "3800.00", total)

	var transfersWithCategory int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE type = 'Transfer' AND category_name IS NOT NULL`).Scan(&transfersWithCategory))
	assert.Zero(t, transfersWithCategory)
}

func TestExportSQLite_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.db")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	// duplicate account names violate the accounts primary key
	f := smallFixture()
	f.Accounts = append(f.Accounts, f.Accounts[0])

	err := ExportSQLite(path, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert account")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExportSQLite_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.db")

	f := smallFixture()
	f.Payees = append(f.Payees, f.Payees[0])

	require.Error(t, ExportSQLite(path, f))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
