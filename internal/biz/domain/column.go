package domain

import "fmt"

// ColumnKey identifies a table column. Data columns reuse the document field name.
type ColumnKey string

const (
	ColCustomerName ColumnKey = FieldCustomerName
	ColEmail        ColumnKey = FieldEmail
	ColPhone        ColumnKey = FieldPhone
	ColAddress      ColumnKey = FieldAddress
	ColCourier      ColumnKey = FieldCourier
	ColProductName  ColumnKey = FieldProductName
	ColQuantity     ColumnKey = FieldQuantity
	ColDescription  ColumnKey = FieldDescription
	ColTime         ColumnKey = FieldTime
	ColProductLinks ColumnKey = FieldProductLinks
	ColStatus       ColumnKey = "Status"
	ColActions      ColumnKey = "Actions"
)

// ColumnKind selects how a column reads and renders a row
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindEmail
	KindPhone
	KindProducts
	KindLinks
	KindQuantity
	KindTime
	KindStatus
	KindActions
)

// Align is the horizontal alignment of a cell
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Column is one entry of the column catalog
type Column struct {
	Key   ColumnKey
	Title string
	Kind  ColumnKind
	text  func(*Row) Text
}

// Text returns the column's text value for a row.
// ok is false for columns that do not carry a single text value.
func (c Column) Text(r *Row) (Text, bool) {
	if c.text == nil {
		return Text{}, false
	}
	return c.text(r), true
}

// Sortable reports whether the column orders rows
func (c Column) Sortable() bool {
	return c.text != nil && c.Kind != KindQuantity
}

// Align returns the column's cell alignment
func (c Column) Align() Align {
	if c.Kind == KindQuantity {
		return AlignCenter
	}
	return AlignLeft
}

var catalog = map[ColumnKey]Column{
	ColCustomerName: {Key: ColCustomerName, Title: "Customer", Kind: KindText, text: func(r *Row) Text { return r.CustomerName }},
	ColEmail:        {Key: ColEmail, Title: "Email", Kind: KindEmail, text: func(r *Row) Text { return r.Email }},
	ColPhone:        {Key: ColPhone, Title: "Phone", Kind: KindPhone, text: func(r *Row) Text { return r.Phone }},
	ColAddress:      {Key: ColAddress, Title: "Address", Kind: KindText, text: func(r *Row) Text { return r.Address }},
	ColCourier:      {Key: ColCourier, Title: "Courier", Kind: KindText, text: func(r *Row) Text { return r.Courier }},
	ColProductName:  {Key: ColProductName, Title: "Product", Kind: KindProducts},
	ColQuantity:     {Key: ColQuantity, Title: "Quantity", Kind: KindQuantity, text: func(r *Row) Text { return r.Quantity }},
	ColDescription:  {Key: ColDescription, Title: "Description", Kind: KindText, text: func(r *Row) Text { return r.Description }},
	ColTime:         {Key: ColTime, Title: "Time", Kind: KindTime},
	ColProductLinks: {Key: ColProductLinks, Title: "Product Links", Kind: KindLinks},
	ColStatus:       {Key: ColStatus, Title: "Status", Kind: KindStatus},
	ColActions:      {Key: ColActions, Title: "Actions", Kind: KindActions},
}

// LookupColumn returns the catalog entry for key
func LookupColumn(key ColumnKey) (Column, bool) {
	c, ok := catalog[key]
	return c, ok
}

// ResolveColumns maps keys to catalog columns, applying title overrides.
// An unknown key is an error.
func ResolveColumns(keys []ColumnKey, titles map[ColumnKey]string) ([]Column, error) {
	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		c, ok := catalog[k]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", k)
		}
		if t, ok := titles[k]; ok && t != "" {
			c.Title = t
		}
		cols = append(cols, c)
	}
	return cols, nil
}
