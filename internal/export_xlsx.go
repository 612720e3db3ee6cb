package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type xlsxSheet struct {
	name   string
	header []any
	rows   [][]any
}

// fixtureSheets lays the fixture out as one sheet per record type. Column
// headers are the JSON field names.
func fixtureSheets(f *Fixture) []xlsxSheet {
	accounts := xlsxSheet{name: "Accounts", header: []any{"id", "name", "type", "isBudget", "sortOrder", "createdAt"}}
	for _, a := range f.Accounts {
		accounts.rows = append(accounts.rows, []any{a.ID, a.Name, string(a.Type), a.IsBudget, a.SortOrder, a.CreatedAt.String()})
	}

	categories := xlsxSheet{name: "Categories", header: []any{"id", "name", "emoji", "isHeader", "isSystem", "sortOrder", "parentName"}}
	for _, c := range f.Categories {
		categories.rows = append(categories.rows, []any{c.ID, c.Name, c.Emoji, c.IsHeader, c.IsSystem, c.SortOrder, c.ParentName})
	}

	months := xlsxSheet{name: "BudgetMonths", header: []any{"id", "month", "note"}}
	for _, m := range f.BudgetMonths {
		months.rows = append(months.rows, []any{m.ID, m.Month.String(), m.Note})
	}

	allocations := xlsxSheet{name: "BudgetAllocations", header: []any{"id", "budgeted", "categoryName", "month", "categoryParent"}}
	for _, a := range f.BudgetAllocations {
		allocations.rows = append(allocations.rows, []any{a.ID, a.Budgeted.Float64(), a.CategoryName, a.Month.String(), a.CategoryParent})
	}

	transactions := xlsxSheet{name: "Transactions", header: []any{
		"id", "amount", "payee", "memo", "date", "type", "isCleared",
		"accountName", "categoryName", "categoryParent", "transferToAccountName",
	}}
	for _, t := range f.Transactions {
		transactions.rows = append(transactions.rows, []any{
			t.ID, t.Amount.Float64(), t.Payee, t.Memo, t.Date.String(), string(t.Type), t.IsCleared,
			t.AccountName, t.CategoryName, t.CategoryParent, t.TransferToAccountName,
		})
	}

	payees := xlsxSheet{name: "Payees", header: []any{"id", "name", "lastUsedDate", "useCount", "lastUsedCategoryName"}}
	for _, p := range f.Payees {
		payees.rows = append(payees.rows, []any{p.ID, p.Name, p.LastUsedDate.String(), p.UseCount, p.LastUsedCategoryName})
	}

	return []xlsxSheet{accounts, transactions, categories, months, allocations, payees}
}

// ExportXLSX writes the fixture as an Excel workbook, one sheet per record type
func ExportXLSX(path string, f *Fixture) error {
	wb := excelize.NewFile()
	defer wb.Close()

	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, sheet := range fixtureSheets(f) {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", sheet.name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := wb.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet.name, err)
		}

		if err := wb.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet.name, err)
		}
		if err := wb.SetRowStyle(sheet.name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet.name, err)
		}

		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := wb.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("writing %s row %d: %w", sheet.name, r+1, err)
			}
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func init() {
	RegisterExporter("xlsx", ExporterFunc(ExportXLSX))
}
