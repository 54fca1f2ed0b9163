package dataset

import (
	"strconv"
	"strings"
)

// Value is one cell of a batch: the raw CSV text plus a null flag. An empty
// CSV cell is read back as null.
type Value struct {
	Raw  string
	Null bool
}

// String builds a non-null cell.
func String(s string) Value { return Value{Raw: s} }

// Null is the absent cell.
var NullValue = Value{Null: true}

// Int parses the cell as an integer.
func (v Value) Int() (int64, bool) {
	if v.Null {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.Raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float parses the cell as a number. Integer text parses too.
func (v Value) Float() (float64, bool) {
	if v.Null {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
