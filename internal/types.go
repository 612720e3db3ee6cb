package internal

type AccountType string

const (
	AccountCurrent    AccountType = "Current"
	AccountSavings    AccountType = "Savings"
	AccountCreditCard AccountType = "Credit Card"
	AccountMortgage   AccountType = "Mortgage"
)

type TransactionType string

const (
	TypeIncome   TransactionType = "Income"
	TypeExpense  TransactionType = "Expense"
	TypeTransfer TransactionType = "Transfer"
)

type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	IsBudget  bool        `json:"isBudget"`
	SortOrder int         `json:"sortOrder"`
	CreatedAt Timestamp   `json:"createdAt"`
}

// Category is either a header (group) or a leaf. Leaves carry ParentName.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	IsHeader   bool   `json:"isHeader"`
	IsSystem   bool   `json:"isSystem"`
	SortOrder  int    `json:"sortOrder"`
	ParentName string `json:"parentName,omitempty"`
}

type BudgetMonth struct {
	ID    string    `json:"id"`
	Month Timestamp `json:"month"`
	Note  string    `json:"note"`
}

type BudgetAllocation struct {
	ID             string    `json:"id"`
	Budgeted       Amount    `json:"budgeted"`
	CategoryName   string    `json:"categoryName"`
	Month          Timestamp `json:"month"`
	CategoryParent string    `json:"categoryParent,omitempty"`
}

// Transaction is a single ledger entry. Expense and Income carry a category;
// Transfer carries TransferToAccountName instead. The two legs of a transfer
// are not linked by id.
type Transaction struct {
	ID                    string          `json:"id"`
	Amount                Amount          `json:"amount"`
	Payee                 string          `json:"payee"`
	Memo                  string          `json:"memo"`
	Date                  Timestamp       `json:"date"`
	Type                  TransactionType `json:"type"`
	IsCleared             bool            `json:"isCleared"`
	AccountName           string          `json:"accountName"`
	CategoryName          string          `json:"categoryName,omitempty"`
	CategoryParent        string          `json:"categoryParent,omitempty"`
	TransferToAccountName string          `json:"transferToAccountName,omitempty"`
}

type Payee struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	LastUsedDate         Timestamp `json:"lastUsedDate"`
	UseCount             int       `json:"useCount"`
	LastUsedCategoryName string    `json:"lastUsedCategoryName,omitempty"`
}

// Fixture is the root document consumed by the budgeting app
type Fixture struct {
	ExportDate        Timestamp          `json:"exportDate"`
	AppVersion        string             `json:"appVersion"`
	Accounts          []Account          `json:"accounts"`
	Transactions      []Transaction      `json:"transactions"`
	Categories        []Category         `json:"categories"`
	BudgetMonths      []BudgetMonth      `json:"budgetMonths"`
	BudgetAllocations []BudgetAllocation `json:"budgetAllocations"`
	Payees            []Payee            `json:"payees"`
}
