package infer

// TransactionType discriminates money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParsedTransaction is the structured result of parsing a free-text
// utterance. Amount is always finite and non-negative; text with no
// recognizable amount parses to 0 rather than failing.
type ParsedTransaction struct {
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
}

// ReceiptItem is one line item on a receipt. Line-item extraction is not
// implemented; Items is always present but empty.
type ReceiptItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ReceiptExtraction is the structured result of scanning a receipt or
// payment screenshot. Date is passed through as the model wrote it, without
// validation.
type ReceiptExtraction struct {
	Amount   float64       `json:"amount"`
	Merchant string        `json:"merchant"`
	Category string        `json:"category"`
	Date     string        `json:"date"`
	Items    []ReceiptItem `json:"items"`
}
