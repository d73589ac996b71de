package usecase

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

// DefaultTimeLayout mirrors the en-US locale date-time rendering
const DefaultTimeLayout = "1/2/2006, 3:04:05 PM"

// Link is a clickable cell entry
type Link struct {
	Href      string `json:"href"`
	Label     string `json:"label"`
	NewWindow bool   `json:"new_window,omitempty"`
}

// Cell is one rendered table cell
type Cell struct {
	Column      domain.ColumnKey `json:"column"`
	Text        string           `json:"text"`
	Links       []Link           `json:"links,omitempty"`
	Align       domain.Align     `json:"align"`
	Placeholder bool             `json:"placeholder,omitempty"`
}

// Formatter renders display values for each column kind
type Formatter struct {
	Location    *time.Location
	TimeLayout  string
	Placeholder string
}

// NewFormatter creates a formatter; empty values fall back to defaults
func NewFormatter(loc *time.Location, layout, placeholder string) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if placeholder == "" {
		placeholder = domain.Placeholder
	}
	return &Formatter{Location: loc, TimeLayout: layout, Placeholder: placeholder}
}

// FormatTime renders t in the display location, or the placeholder when absent
func (f *Formatter) FormatTime(t *time.Time) string {
	if t == nil {
		return f.Placeholder
	}
	return t.In(f.Location).Format(f.TimeLayout)
}

// Cell renders one cell. status may be nil.
func (f *Formatter) Cell(col domain.Column, row *domain.Row, status *domain.StatusTracker) Cell {
	cell := Cell{Column: col.Key, Align: col.Align()}

	switch col.Kind {
	case domain.KindLinks:
		if len(row.ProductLinks) == 0 {
			return f.placeholder(cell)
		}
		for i, href := range row.ProductLinks {
			cell.Links = append(cell.Links, Link{
				Href:      href,
				Label:     "Link-" + strconv.Itoa(i+1),
				NewWindow: true,
			})
		}
		return cell

	case domain.KindTime:
		if row.Time == nil {
			return f.placeholder(cell)
		}
		cell.Text = f.FormatTime(row.Time)
		return cell

	case domain.KindPhone:
		if !row.Phone.Valid {
			return f.placeholder(cell)
		}
		cell.Text = row.Phone.Value
		if href := TelLink(row.Phone.Value); href != "" {
			cell.Links = []Link{{Href: href, Label: row.Phone.Value}}
		}
		return cell

	case domain.KindEmail:
		if !row.Email.Valid {
			return f.placeholder(cell)
		}
		cell.Text = row.Email.Value
		cell.Links = []Link{{Href: "mailto:" + row.Email.Value, Label: row.Email.Value}}
		return cell

	case domain.KindStatus:
		if status == nil {
			return f.placeholder(cell)
		}
		label, ok := status.Get(row.ID)
		if !ok {
			return f.placeholder(cell)
		}
		cell.Text = label
		return cell

	case domain.KindProducts:
		if len(row.Products) == 0 {
			return f.placeholder(cell)
		}
		cell.Text = strings.Join(row.Products, ", ")
		return cell

	case domain.KindActions:
		id := url.PathEscape(row.ID)
		cell.Links = []Link{
			{Href: "/requests/" + id + "/invoice", Label: "Invoice", NewWindow: true},
			{Href: "/requests/" + id + "/whatsapp", Label: "WhatsApp", NewWindow: true},
		}
		return cell
	}

	txt, ok := col.Text(row)
	if !ok || !txt.Valid {
		return f.placeholder(cell)
	}
	cell.Text = txt.Value
	return cell
}

func (f *Formatter) placeholder(c Cell) Cell {
	c.Text = f.Placeholder
	c.Placeholder = true
	return c
}

// Digits strips every non-digit character
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TelLink returns a tel: deep link, or "" when the number has no digits
func TelLink(phone string) string {
	d := Digits(phone)
	if d == "" {
		return ""
	}
	return "tel:" + d
}

// componentUnescaper undoes the QueryEscape output that encodeURIComponent leaves alone
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent encodes s the way a browser's encodeURIComponent does
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
