package notify

import (
	"fmt"
	"html/template"

	"botanyco/internal/models"
)

// Every template carries the full content contract: order id, status,
// itemized lines, shipping address, and total.
const baseTmpl = `
<html>
<body>
  <h2>Botany &amp; Co</h2>
  <p>Hi {{.Name}},</p>
  <p>{{template "intro" .}}</p>
  <p>Order <strong>{{.OrderID}}</strong> is <strong>{{.Status}}</strong>.</p>
  <table border="1" cellpadding="4" cellspacing="0">
    <tr><th>Item</th><th>Price</th><th>Qty</th><th>Total</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td>{{.Price}}</td><td>{{.Quantity}}</td><td>{{.Total}}</td></tr>
    {{end}}
  </table>
  <p>Shipping to: {{.Address}}</p>
  <p>Total: <strong>{{.Total}}</strong></p>
  <p>Thank you for shopping with Botany &amp; Co.</p>
</body>
</html>`

var statusIntros = map[models.OrderStatus]string{
	models.StatusProcessing: `{{define "intro"}}We have received your order and it is now being processed.{{end}}`,
	models.StatusShipped:    `{{define "intro"}}Good news, your order is on its way.{{end}}`,
	models.StatusDelivered:  `{{define "intro"}}Your order has been delivered. A receipt is attached.{{end}}`,
}

func parseTemplates() map[models.OrderStatus]*template.Template {
	cache := make(map[models.OrderStatus]*template.Template, len(statusIntros))
	for status, intro := range statusIntros {
		ts := template.Must(template.New(status.String()).Parse(baseTmpl))
		template.Must(ts.Parse(intro))
		cache[status] = ts
	}
	return cache
}

type emailLine struct {
	Name     string
	Price    string
	Quantity int
	Total    string
}

type emailData struct {
	Name    string
	OrderID string
	Status  string
	Items   []emailLine
	Address string
	Total   string
}

func newEmailData(order *models.Order, user *models.User, status models.OrderStatus) emailData {
	lines := make([]emailLine, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, emailLine{
			Name:     item.Name,
			Price:    fmt.Sprintf("%.2f", item.Price),
			Quantity: item.Quantity,
			Total:    fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)),
		})
	}
	addr := fmt.Sprintf("%s, %s %s, %s",
		order.ShippingInfo.Address, order.ShippingInfo.City,
		order.ShippingInfo.PostalCode, order.ShippingInfo.Country)
	return emailData{
		Name:    user.Name,
		OrderID: order.ID.Hex(),
		Status:  status.String(),
		Items:   lines,
		Address: addr,
		Total:   fmt.Sprintf("%.2f", order.TotalPrice),
	}
}
