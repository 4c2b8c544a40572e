// Package notify sends order status emails with optional PDF receipts.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"botanyco/internal/models"
)

type Attachment struct {
	Name string
	Data []byte
}

type Message struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// Sender delivers a rendered message. Implementations must honour ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ReceiptRenderer produces the PDF attachment for a notification.
type ReceiptRenderer interface {
	Render(order *models.Order, user *models.User) ([]byte, error)
}

// Result reports the notification outcome. A status change is never failed
// because of it; callers surface EmailSent as an advisory flag.
type Result struct {
	EmailSent bool   `json:"emailSent"`
	Err       string `json:"error,omitempty"`
}

type Dispatcher struct {
	sender    Sender
	receipts  ReceiptRenderer
	errorLog  *log.Logger
	templates map[models.OrderStatus]*template.Template
}

func NewDispatcher(sender Sender, receipts ReceiptRenderer, errorLog *log.Logger) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		receipts:  receipts,
		errorLog:  errorLog,
		templates: parseTemplates(),
	}
}

// Notify renders the template for status and sends it to the order's owner.
// Statuses without a template are a no-op. All failures are converted into
// the Result; nothing escapes this boundary.
func (d *Dispatcher) Notify(ctx context.Context, order *models.Order, user *models.User, status models.OrderStatus) Result {
	ts, ok := d.templates[status]
	if !ok {
		return Result{}
	}

	var buf bytes.Buffer
	if err := ts.Execute(&buf, newEmailData(order, user, status)); err != nil {
		d.errorLog.Printf("notify: template for %s: %v", status, err)
		return Result{Err: err.Error()}
	}

	msg := Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Your Botany & Co order %s is %s", order.ID.Hex(), status),
		HTML:    buf.String(),
	}
	msg.Attachment = d.renderAttachment(order, user)

	if err := d.sender.Send(ctx, msg); err != nil {
		d.errorLog.Printf("notify: send to %s for order %s: %v", user.Email, order.ID.Hex(), err)
		return Result{Err: err.Error()}
	}
	return Result{EmailSent: true}
}

// renderAttachment attempts the PDF receipt; on failure the email simply
// goes out without one.
func (d *Dispatcher) renderAttachment(order *models.Order, user *models.User) *Attachment {
	if d.receipts == nil {
		return nil
	}
	data, err := d.receipts.Render(order, user)
	if err != nil {
		d.errorLog.Printf("notify: receipt for order %s: %v", order.ID.Hex(), err)
		return nil
	}
	return &Attachment{
		Name: fmt.Sprintf("receipt-%s.pdf", order.ID.Hex()),
		Data: data,
	}
}
