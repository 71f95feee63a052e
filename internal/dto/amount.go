package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount decodes a backend money field that may arrive as a number, a
// numeric string or null. Anything unparseable decodes to zero.
type Amount decimal.Decimal

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		d = decimal.Zero
	}
	*a = Amount(d)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(a).MarshalJSON()
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

// NullAmount is an Amount that remembers whether a value was present.
type NullAmount decimal.NullDecimal

func (n *NullAmount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if string(b) == "null" || d.UnmarshalJSON(b) != nil {
		*n = NullAmount{}
		return nil
	}
	*n = NullAmount(decimal.NewNullDecimal(d))
	return nil
}

func (n NullAmount) NullDecimal() decimal.NullDecimal {
	return decimal.NullDecimal(n)
}

// Count decodes a quantity sent as a number or a string. Fractions are
// truncated, garbage becomes zero.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		*c = 0
		return nil
	}
	*c = Count(d.IntPart())
	return nil
}

// Timestamp accepts RFC 3339 strings; empty or malformed values decode to
// the zero time.
type Timestamp time.Time

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
