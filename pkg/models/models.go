// Package models holds the typed records of a society's billing data.
//
// Each collection is persisted as a single JSON document, so every record
// round-trips through encoding/json. Amounts are decimal.Decimal and are
// written as plain JSON numbers to stay compatible with documents created by
// the web portal.
package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Zero is a convenience for comparisons against decimal amounts.
var Zero = decimal.Zero
