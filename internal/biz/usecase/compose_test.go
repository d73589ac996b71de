package usecase

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
)

func newTestComposer() *Composer {
	return NewComposer(DefaultComposeConfig, NewFormatter(time.UTC, "", ""))
}

func TestComposer_QRText(t *testing.T) {
	c := newTestComposer()
	rows := sampleRows()

	text := c.QRText(rows[0])
	assert.Equal(t, strings.Join([]string{
		"Name: Zoë Adams",
		"Email: zoe@example.com",
		"Courier: DHL",
		"Quantity: 2",
		"Product(s): Link 1: https://shop.example/lamp | Link 2: https://shop.example/desk",
	}, "\n"), text)

	assert.Contains(t, c.QRText(rows[1]), "Courier: N/A")
}

func TestComposer_QRCodeURL(t *testing.T) {
	c := newTestComposer()
	rows := sampleRows()

	raw := c.QRCodeURL(rows[0])
	assert.True(t, strings.HasPrefix(raw, "https://api.qrserver.com/v1/create-qr-code/?data="))
	assert.True(t, strings.HasSuffix(raw, "&size=150x150"))
	assert.Contains(t, raw, "Name%3A%20Zo")
	assert.NotContains(t, raw, "+")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, c.QRText(rows[0]), u.Query().Get("data"))
}

func TestComposer_WhatsAppLink(t *testing.T) {
	c := newTestComposer()
	rows := sampleRows()

	raw := c.WhatsAppLink(rows[0])
	assert.True(t, strings.HasPrefix(raw, "https://wa.me/15551234567?text="), raw)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	msg := u.Query().Get("text")
	assert.Contains(t, msg, "Hello Zoë Adams,")
	assert.Contains(t, msg, "Courier: DHL")
	assert.Contains(t, msg, "Quantity: 2")
	assert.Contains(t, msg, "1. https://shop.example/lamp\n2. https://shop.example/desk")
	assert.Contains(t, msg, "Order Date: 11/14/2023, 10:13:20 PM")
}

func TestComposer_WhatsAppLinkWithoutTime(t *testing.T) {
	c := newTestComposer()
	rows := sampleRows()

	u, err := url.Parse(c.WhatsAppLink(rows[1]))
	require.NoError(t, err)
	assert.Equal(t, "/442079460018", u.Path)

	msg := u.Query().Get("text")
	assert.Contains(t, msg, "Order Date: N/A")
	assert.Contains(t, msg, "Courier: N/A")
	assert.Contains(t, msg, "Products:\nN/A")
}

func TestComposer_WriteInvoice(t *testing.T) {
	c := newTestComposer()
	rows := sampleRows()

	var buf bytes.Buffer
	require.NoError(t, c.WriteInvoice(&buf, rows[0]))

	html := buf.String()
	assert.Contains(t, html, "<title>Invoice - Zoë Adams</title>")
	assert.Contains(t, html, "Courier: DHL")
	assert.Contains(t, html, "Lamp, Desk")
	assert.Contains(t, html, "https://shop.example/desk")
	assert.Contains(t, html, "api.qrserver.com/v1/create-qr-code/")
	assert.Contains(t, html, "window.print();")
}

func TestComposer_InvoiceEscapesFields(t *testing.T) {
	c := newTestComposer()
	row := sampleRows()[1]
	row.CustomerName.Value = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, c.WriteInvoice(&buf, row))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestComposer_UsesConfiguredPlaceholder(t *testing.T) {
	c := NewComposer(DefaultComposeConfig, NewFormatter(time.UTC, "", "(none)"))
	row := domain.NormalizeAll([]domain.Record{
		{ID: "req-9", Fields: map[string]any{domain.FieldPhone: "555-0100"}},
	})[0]

	doc := c.Invoice(row)
	assert.Equal(t, "Invoice - (none)", doc.Title)
	assert.Equal(t, "(none)", doc.CustomerName)
	assert.Equal(t, "(none)", doc.Email)
	assert.Equal(t, "(none)", doc.Address)
	assert.Equal(t, "(none)", doc.Products)
	assert.Equal(t, "(none)", doc.Time)
	assert.NotContains(t, doc.Email, domain.Placeholder)

	text := c.QRText(row)
	assert.Contains(t, text, "Name: (none)")
	assert.Contains(t, text, "Email: (none)")
	assert.Contains(t, text, "Quantity: (none)")
}
