// Package receipt renders itemized PDF receipts for orders.
package receipt

import (
	"bytes"
	"fmt"

	"botanyco/internal/models"

	"github.com/jung-kurt/gofpdf"
)

type Renderer struct {
	StoreName string
}

func NewRenderer() *Renderer {
	return &Renderer{StoreName: "Botany & Co"}
}

// Render produces the PDF bytes for an order. Layout-engine panics are
// recovered and reported as renderer errors so the caller can send the
// notification without an attachment.
func (r *Renderer) Render(order *models.Order, user *models.User) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("receipt: render panic: %v", p)
		}
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.StoreName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Order Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Order ID: %s", order.ID.Hex()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Order date: %s", order.PaidAt.Format("2 Jan 2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", order.OrderStatus), "", 1, "L", false, 0, "")
	if order.DeliveredAt != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Delivered: %s", order.DeliveredAt.Format("2 Jan 2006")), "", 1, "L", false, 0, "")
	}
	if order.PaymentInfo.Status == models.PaymentSucceeded {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 128, 0)
		pdf.CellFormat(0, 5, "PAID", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, "Shipping", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, user.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, order.ShippingInfo.PhoneNo, "", 1, "L", false, 0, "")
	addr := fmt.Sprintf("%s, %s %s, %s",
		order.ShippingInfo.Address, order.ShippingInfo.City,
		order.ShippingInfo.PostalCode, order.ShippingInfo.Country)
	pdf.MultiCell(0, 5, addr, "", "L", false)
	pdf.Ln(4)

	r.itemTable(pdf, order)
	r.totals(pdf, order)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) itemTable(pdf *gofpdf.Fpdf, order *models.Order) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.OrderItems {
		pdf.CellFormat(90, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}
}

func (r *Renderer) totals(pdf *gofpdf.Fpdf, order *models.Order) {
	pdf.Ln(3)
	row := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(140, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
	}
	row("Subtotal", order.ItemsPrice, false)
	row("Tax", order.TaxPrice, false)
	row("Shipping", order.ShippingPrice, false)
	row("Grand total", order.TotalPrice, true)
}
