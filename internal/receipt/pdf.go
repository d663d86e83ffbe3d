package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/semzi/sledge/internal/models"
)

// Filename returns the timestamped download name for an exported receipt.
func Filename(now time.Time) string {
	return fmt.Sprintf("payment-receipt-%d.pdf", now.UnixMilli())
}

// fmtMoney renders a wire money string with two decimals. Unparsable
// values display as "0.00"; the receipt still renders.
func fmtMoney(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// Render composes the receipt as a single fixed-size A4 page: a solid
// dark background with the receipt card centered on it.
func Render(rec models.ReceiptRecord) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFillColor(17, 24, 39)
	pdf.Rect(0, 0, pageW, pageH, "F")

	cardW := 380.0
	cardX := (pageW - cardW) / 2
	cardY := 140.0
	cardH := 420.0
	pdf.SetFillColor(31, 41, 55)
	pdf.RoundedRect(cardX, cardY, cardW, cardH, 12, "1234", "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(cardX, cardY+36)
	pdf.CellFormat(cardW, 24, "Sledge Mentorship", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(209, 213, 219)
	pdf.SetXY(cardX, cardY+66)
	pdf.CellFormat(cardW, 16, "Payment Receipt", "", 0, "C", false, 0, "")

	when := rec.DateTime
	if t, err := time.Parse(time.RFC3339, rec.DateTime); err == nil {
		when = t.Format("Jan 2, 2006 15:04")
	}

	rows := []struct {
		label, value string
	}{
		{"Billed To", orDash(rec.Name)},
		{"Email", orDash(rec.Email)},
		{"Date", when},
		{"Cohort", orDash(rec.Cohort)},
		{"Subtotal", fmt.Sprintf("$%s %s", fmtMoney(rec.Subtotal), rec.Currency)},
		{"Total", fmt.Sprintf("$%s %s", fmtMoney(rec.Total), rec.Currency)},
		{"Status", orDash(rec.RegistrationStatus)},
	}

	y := cardY + 110
	inset := 32.0
	for _, row := range rows {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(156, 163, 175)
		pdf.SetXY(cardX+inset, y)
		pdf.CellFormat(120, 16, row.label, "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(243, 244, 246)
		pdf.SetXY(cardX+inset+120, y)
		pdf.CellFormat(cardW-inset*2-120, 16, row.value, "", 0, "R", false, 0, "")
		y += 34
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(cardX, cardY+cardH-40)
	pdf.CellFormat(cardW, 12, "Thank you for joining the Sledge Mentorship Program.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("compose pdf: %w", err)
	}
	return buf.Bytes(), nil
}
