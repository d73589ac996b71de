package usecase

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

//go:embed templates/invoice.html
var invoiceFS embed.FS

var invoiceTmpl = template.Must(template.ParseFS(invoiceFS, "templates/invoice.html"))

// ComposeConfig contains invoice and message composition settings
type ComposeConfig struct {
	QREndpoint       string // QR rendering endpoint, receives data and size query params
	QRSize           string // e.g. 150x150
	WhatsAppBaseURL  string // e.g. https://wa.me/
	GreetingTemplate string // supports {{customer_name}} {{courier}} {{quantity}} {{product_links}} {{order_date}}
	InvoiceFooter    string
}

// DefaultComposeConfig is the default composition configuration
var DefaultComposeConfig = ComposeConfig{
	QREndpoint:      "https://api.qrserver.com/v1/create-qr-code/",
	QRSize:          "150x150",
	WhatsAppBaseURL: "https://wa.me/",
	GreetingTemplate: `Hello {{customer_name}},

Thank you for your order! Here are the details:

Courier: {{courier}}
Quantity: {{quantity}}
Products:
{{product_links}}

Order Date: {{order_date}}

We will contact you shortly to confirm delivery.`,
	InvoiceFooter: "Thank you for your order!",
}

// NotAvailable is used in composed text for missing values
const NotAvailable = "N/A"

// Composer builds the printable invoice and the WhatsApp deep link for a row
type Composer struct {
	cfg       ComposeConfig
	formatter *Formatter
}

// NewComposer creates a new composer
func NewComposer(cfg ComposeConfig, formatter *Formatter) *Composer {
	return &Composer{cfg: cfg, formatter: formatter}
}

// display renders t with the configured placeholder for absent values
func (c *Composer) display(t domain.Text) string {
	return t.Or(c.formatter.Placeholder)
}

// QRText is the plain-text summary encoded into the invoice QR code
func (c *Composer) QRText(row domain.Row) string {
	return strings.Join([]string{
		"Name: " + c.display(row.CustomerName),
		"Email: " + c.display(row.Email),
		"Courier: " + row.Courier.Or(NotAvailable),
		"Quantity: " + c.display(row.Quantity),
		"Product(s): " + productLinksInline(row.ProductLinks),
	}, "\n")
}

// QRCodeURL returns the image URL of the invoice QR code
func (c *Composer) QRCodeURL(row domain.Row) string {
	return fmt.Sprintf("%s?data=%s&size=%s", c.cfg.QREndpoint, escapeComponent(c.QRText(row)), c.cfg.QRSize)
}

// Greeting renders the WhatsApp message body for a row
func (c *Composer) Greeting(row domain.Row) string {
	orderDate := NotAvailable
	if row.Time != nil {
		orderDate = c.formatter.FormatTime(row.Time)
	}
	r := strings.NewReplacer(
		"{{customer_name}}", row.CustomerName.Or("Customer"),
		"{{courier}}", row.Courier.Or(NotAvailable),
		"{{quantity}}", row.Quantity.Or(NotAvailable),
		"{{product_links}}", productLinksList(row.ProductLinks),
		"{{order_date}}", orderDate,
	)
	return r.Replace(c.cfg.GreetingTemplate)
}

// WhatsAppLink returns the wa.me deep link with the greeting prefilled.
// The phone number is reduced to its digits.
func (c *Composer) WhatsAppLink(row domain.Row) string {
	return c.cfg.WhatsAppBaseURL + Digits(row.Phone.Value) + "?text=" + escapeComponent(c.Greeting(row))
}

// InvoiceLink is a product link shown on the invoice
type InvoiceLink struct {
	Label string
	Href  string
}

// InvoiceDoc is the data rendered into the invoice document
type InvoiceDoc struct {
	Title        string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Courier      string
	Quantity     string
	Time         string
	Products     string
	Description  string
	Links        []InvoiceLink
	QRCodeURL    string
	Footer       string
}

// Invoice builds the invoice document data for a row
func (c *Composer) Invoice(row domain.Row) InvoiceDoc {
	products := strings.Join(row.Products, ", ")
	if products == "" {
		products = c.formatter.Placeholder
	}
	doc := InvoiceDoc{
		Title:        "Invoice - " + c.display(row.CustomerName),
		CustomerName: c.display(row.CustomerName),
		Email:        c.display(row.Email),
		Phone:        c.display(row.Phone),
		Address:      c.display(row.Address),
		Courier:      c.display(row.Courier),
		Quantity:     c.display(row.Quantity),
		Time:         c.formatter.FormatTime(row.Time),
		Products:     products,
		Description:  c.display(row.Description),
		QRCodeURL:    c.QRCodeURL(row),
		Footer:       c.cfg.InvoiceFooter,
	}
	for i, l := range row.ProductLinks {
		doc.Links = append(doc.Links, InvoiceLink{Label: fmt.Sprintf("Link %d", i+1), Href: l})
	}
	return doc
}

// WriteInvoice renders the self-contained printable invoice for a row.
// The document asks the browser to print itself once loaded.
func (c *Composer) WriteInvoice(w io.Writer, row domain.Row) error {
	if err := invoiceTmpl.Execute(w, c.Invoice(row)); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}

func productLinksInline(links []string) string {
	parts := make([]string, 0, len(links))
	for i, l := range links {
		parts = append(parts, fmt.Sprintf("Link %d: %s", i+1, l))
	}
	return strings.Join(parts, " | ")
}

func productLinksList(links []string) string {
	if len(links) == 0 {
		return NotAvailable
	}
	lines := make([]string, 0, len(links))
	for i, l := range links {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, l))
	}
	return strings.Join(lines, "\n")
}
