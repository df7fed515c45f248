// Package invoice renders order invoices as PDF with a signed QR reference.
package invoice

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"modesta/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRPayload returns orderID|total|signature, signed with secret.
func QRPayload(o *models.Order, secret []byte) string {
	data := fmt.Sprintf("%s|%.2f", o.ID, o.Total)
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(data))
	return data + "|" + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Verify checks a payload produced by QRPayload.
func Verify(payload string, secret []byte) (orderID string, ok bool) {
	i := strings.LastIndex(payload, "|")
	if i < 0 {
		return "", false
	}
	data, sig := payload[:i], payload[i+1:]
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(data))
	want := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}
	id, _, _ := strings.Cut(data, "|")
	return id, true
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Render builds the invoice document for o.
func Render(o *models.Order, secret []byte) ([]byte, error) {
	qrPNG, err := qrcode.Encode(QRPayload(o, secret), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+o.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, "Order: "+o.ID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+o.CreatedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+string(o.Status))
	pdf.Ln(10)

	a := o.ShippingAddress
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Ship to")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{a.FullName, a.Address, a.City + " " + a.PostalCode, a.Country, a.Phone} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 155, 20, 40, 40, false, imageOpts, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		name := it.Name
		if variant := strings.TrimSpace(strings.Join([]string{it.SelectedColor, it.SelectedSize}, " ")); variant != "" {
			name += " (" + variant + ")"
		}
		pdf.CellFormat(95, 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprint(it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, money(it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, money(it.Price*float64(it.Quantity)), "1", 1, "R", false, 0, "")
	}

	totals := [][2]string{{"Subtotal", money(o.Subtotal)}}
	if o.Discount > 0 {
		label := "Discount"
		if o.CouponCode != "" {
			label += " (" + o.CouponCode + ")"
		}
		totals = append(totals, [2]string{label, "-" + money(o.Discount)})
	}
	totals = append(totals, [2]string{"Total", money(o.Total)})
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(150, 7, row[0], "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row[1], "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
