package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, the same as the rest of the ledger.
	decimal.MarshalJSONWithoutQuotes = true
}

// Activity types.
const (
	ActivitySale = "sale"
	ActivityLoss = "loss"
)

// Activity is an immutable ledger entry recording a sale or a loss. ItemName is
// a copy taken when the entry was written so reports survive item renames.
type Activity struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Type     string          `json:"type"`
	LossType *string         `json:"lossType,omitempty"`
	Quantity Count           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// UnmarshalJSON implements json.Unmarshaler. Amount decodes leniently: numbers
// and numeric strings are kept, anything else becomes 0.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type plain Activity
	aux := struct {
		*plain
		Amount json.RawMessage `json:"amount"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Amount = parseAmount(aux.Amount)
	return nil
}

func parseAmount(data json.RawMessage) decimal.Decimal {
	var d decimal.Decimal
	if len(data) == 0 {
		return d
	}
	if err := d.UnmarshalJSON(data); err != nil {
		return decimal.Zero
	}
	return d
}
