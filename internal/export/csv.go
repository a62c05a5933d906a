// Package export renders stored transactions as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"pal-budget/internal/infer"
	"pal-budget/internal/store"
)

// utf8BOM lets Excel detect the encoding of the Chinese headers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"日期", "类型", "分类", "金额", "备注", "来源"}

var sourceNames = map[store.TransactionSource]string{
	store.SourceManual: "手动",
	store.SourceVoice:  "语音",
	store.SourcePhoto:  "拍照",
	store.SourceAI:     "AI",
}

// WriteCSV streams txns to w as a BOM-prefixed CSV with localized type and
// source columns.
func WriteCSV(w io.Writer, txns []*store.Transaction) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("export: write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, t := range txns {
		typeName := "支出"
		if t.Type == infer.TypeIncome {
			typeName = "收入"
		}
		sourceName, ok := sourceNames[t.Source]
		if !ok {
			sourceName = "-"
			if t.Source != "" {
				sourceName = string(t.Source)
			}
		}
		description := t.Description
		if description == "" {
			description = "-"
		}

		record := []string{
			t.Date.String(),
			typeName,
			t.Category,
			decimal.NewFromFloat(t.Amount).StringFixed(2),
			description,
			sourceName,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}
