package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Placeholder is rendered for any field the source document did not carry
const Placeholder = "—"

// Document field names as stored by the data source
const (
	FieldCustomerName = "Customer-Name"
	FieldEmail        = "User-Email"
	FieldPhone        = "Phone-Number"
	FieldAddress      = "Address"
	FieldCourier      = "Courier"
	FieldProductName  = "Product-Name"
	FieldQuantity     = "Quantity"
	FieldDescription  = "Description"
	FieldTime         = "Time"
	FieldProductLinks = "Product-Links"
)

// ErrRequestNotFound is returned when a row id is not part of the fetched batch
var ErrRequestNotFound = errors.New("request not found")

// Record is one order request document as returned by the data source.
// The id is assigned by the source and is unique within a fetched batch.
type Record struct {
	ID     string
	Fields map[string]any
}

// Text is an optional text value. The zero value is an absent field.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present text value
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// Display returns the value, or Placeholder when absent
func (t Text) Display() string {
	if !t.Valid {
		return Placeholder
	}
	return t.Value
}

// Or returns the value, or fallback when absent
func (t Text) Or(fallback string) string {
	if !t.Valid {
		return fallback
	}
	return t.Value
}

// Row is the render-ready projection of a Record
type Row struct {
	ID           string
	CustomerName Text
	Email        Text
	Phone        Text
	Address      Text
	Courier      Text
	Products     []string
	Quantity     Text
	Description  Text
	Time         *time.Time
	ProductLinks []string
}

// Normalize maps a raw record into a Row.
// Optional fields are never left undefined: text fields become invalid Text values,
// product names and links always come back as a (possibly empty) list.
func Normalize(rec Record) Row {
	f := rec.Fields
	return Row{
		ID:           rec.ID,
		CustomerName: textField(f, FieldCustomerName),
		Email:        textField(f, FieldEmail),
		Phone:        textField(f, FieldPhone),
		Address:      textField(f, FieldAddress),
		Courier:      textField(f, FieldCourier),
		Products:     listField(f, FieldProductName),
		Quantity:     textField(f, FieldQuantity),
		Description:  textField(f, FieldDescription),
		Time:         timeField(f, FieldTime),
		ProductLinks: listField(f, FieldProductLinks),
	}
}

// NormalizeAll normalizes a fetched batch, keeping source order
func NormalizeAll(recs []Record) []Row {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, Normalize(rec))
	}
	return rows
}

func textField(f map[string]any, key string) Text {
	v, ok := f[key]
	if !ok || v == nil {
		return Text{}
	}
	switch val := v.(type) {
	case string:
		return NewText(val)
	case float64:
		return NewText(formatNumber(val))
	case float32:
		return NewText(formatNumber(float64(val)))
	case int:
		return NewText(strconv.Itoa(val))
	case int64:
		return NewText(strconv.FormatInt(val, 10))
	case int32:
		return NewText(strconv.FormatInt(int64(val), 10))
	case bool:
		return NewText(strconv.FormatBool(val))
	default:
		return Text{}
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func listField(f map[string]any, key string) []string {
	v, ok := f[key]
	if !ok || v == nil {
		return []string{}
	}
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

// timeField accepts the shapes a document timestamp arrives in:
// a decoded time.Time (Firestore SDK), a {seconds, nanoseconds} map (JSON export),
// or a bare number of seconds.
func timeField(f map[string]any, key string) *time.Time {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return &val
	case *time.Time:
		return val
	case map[string]any:
		secs, ok := numberOf(val["seconds"])
		if !ok {
			secs, ok = numberOf(val["_seconds"])
		}
		if !ok {
			return nil
		}
		nanos, ok := numberOf(val["nanoseconds"])
		if !ok {
			nanos, _ = numberOf(val["_nanoseconds"])
		}
		t := time.Unix(int64(secs), int64(nanos))
		return &t
	default:
		secs, ok := numberOf(val)
		if !ok {
			return nil
		}
		t := time.Unix(int64(secs), 0)
		return &t
	}
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
