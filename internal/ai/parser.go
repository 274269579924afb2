package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "expenza/internal/errors"
)

// ParsedExpenseItem is one expense extracted from the model output.
// It is transient: consumed once by reconciliation, never persisted.
type ParsedExpenseItem struct {
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	CategoryName  string `json:"category_name"`
	GroupName     string `json:"group_name"`
	IsNewCategory bool   `json:"is_new_category"`
	SuggestedIcon string `json:"suggested_icon"`
}

// AmountDecimal returns the amount as an exact decimal.
func (i *ParsedExpenseItem) AmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(i.Amount)
}

// rawExpenseItem tolerates the shape drift models produce: amounts as
// numbers or strings, nullable name fields.
type rawExpenseItem struct {
	Amount        json.RawMessage `json:"amount"`
	Description   string          `json:"description"`
	CategoryName  *string         `json:"category_name"`
	GroupName     *string         `json:"group_name"`
	IsNewCategory bool            `json:"is_new_category"`
	SuggestedIcon *string         `json:"suggested_icon"`
}

type responseEnvelope struct {
	Expenses *[]rawExpenseItem `json:"expenses"`
}

// ParseResponse strips formatting artifacts from raw model output,
// parses it as JSON, and validates the expected shape. A structural
// failure returns PARSE_ERROR with the offending raw text attached to
// the internal error; data is never silently dropped. An empty
// expenses list parses successfully and returns an empty slice, which
// the caller distinguishes from a parse failure.
func ParseResponse(raw string) ([]ParsedExpenseItem, error) {
	text := stripCodeFence(raw)

	var envelope responseEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, parseError(fmt.Errorf("invalid JSON: %w (raw response: %s)", err, raw))
	}
	if envelope.Expenses == nil {
		return nil, parseError(fmt.Errorf("missing expenses list (raw response: %s)", raw))
	}

	items := make([]ParsedExpenseItem, 0, len(*envelope.Expenses))
	for idx, r := range *envelope.Expenses {
		item, err := coerceItem(r)
		if err != nil {
			return nil, parseError(fmt.Errorf("expense %d: %w (raw response: %s)", idx, err, raw))
		}
		items = append(items, item)
	}
	return items, nil
}

func coerceItem(r rawExpenseItem) (ParsedExpenseItem, error) {
	amount, err := coerceAmount(r.Amount)
	if err != nil {
		return ParsedExpenseItem{}, err
	}

	item := ParsedExpenseItem{
		Amount:        amount,
		Description:   strings.TrimSpace(r.Description),
		IsNewCategory: r.IsNewCategory,
	}
	if r.CategoryName != nil {
		item.CategoryName = strings.TrimSpace(*r.CategoryName)
	}
	if r.GroupName != nil {
		item.GroupName = strings.TrimSpace(*r.GroupName)
	}
	if r.SuggestedIcon != nil {
		item.SuggestedIcon = strings.TrimSpace(*r.SuggestedIcon)
	}
	return item, nil
}

// coerceAmount accepts the amount as either a JSON string ("45.00") or
// a bare number (45.0) and validates it as a positive decimal.
func coerceAmount(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing amount")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("amount is neither string nor number: %s", raw)
		}
		s = n.String()
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("amount %q is not a decimal", s)
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("amount %q is not positive", s)
	}
	return d.String(), nil
}

// stripCodeFence removes a leading ```json or ``` line and a trailing
// ``` delimiter, which models add despite being told not to.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func parseError(internal error) error {
	return apperrors.Wrap(apperrors.ErrParseFailed, internal)
}
