package infer

import (
	"regexp"
	"strconv"
)

// Sanity bounds for an extracted amount. Values outside this range are
// rejected and the cascade moves on to the next pattern.
const (
	minAmount = 0.01
	maxAmount = 100000
)

// amountPatterns is the extraction cascade, highest confidence first:
// a currency-symbol prefix, a currency unit suffix, a labelled "amount"
// field, a labelled 金额 phrase, and finally any bare two-decimal number.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[¥￥$]\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:元|块钱|块)`),
	regexp.MustCompile(`"amount"[:\s]*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`金额[是为约：:\s]*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d{1,6}\.\d{2})`),
}

// ExtractAmount pulls the single most plausible monetary value out of
// arbitrary text. It is a pure function and never fails: text with no
// acceptable amount yields 0.
func ExtractAmount(text string) float64 {
	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v >= minAmount && v <= maxAmount {
			return v
		}
	}
	return 0
}
