package main

import (
	"net/http"
	"strings"

	"botanyco/internal/models"
	"botanyco/internal/payments"
)

func (app *application) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	if app.payments == nil {
		app.clientError(w, http.StatusServiceUnavailable, "card payments are not configured")
		return
	}

	var input struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := app.readJSON(w, r, &input); err != nil || input.Amount <= 0 {
		app.clientError(w, http.StatusBadRequest, "a positive amount in minor units is required")
		return
	}
	if input.Currency == "" {
		input.Currency = "usd"
	}

	intent, err := app.payments.CreateIntent(r.Context(), input.Amount, input.Currency)
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "clientSecret": intent.ClientSecret})
}

type createOrderRequest struct {
	OrderItems    []models.OrderItem  `json:"orderItems"`
	ShippingInfo  models.ShippingInfo `json:"shippingInfo"`
	ItemsPrice    float64             `json:"itemsPrice"`
	TaxPrice      float64             `json:"taxPrice"`
	ShippingPrice float64             `json:"shippingPrice"`
	TotalPrice    float64             `json:"totalPrice"`
	PaymentInfo   models.PaymentInfo  `json:"paymentInfo"`
}

// createOrder is the checkout endpoint. The order is committed first; the
// Processing email is attempted afterwards and its outcome is reported as
// the emailSent flag without affecting success.
func (app *application) createOrder(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	var input createOrderRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paymentInfo := input.PaymentInfo
	if paymentInfo.ID == "" {
		paymentInfo = payments.CashOnDelivery()
	}

	order := &models.Order{
		OrderItems:    input.OrderItems,
		ShippingInfo:  input.ShippingInfo,
		ItemsPrice:    input.ItemsPrice,
		TaxPrice:      input.TaxPrice,
		ShippingPrice: input.ShippingPrice,
		TotalPrice:    input.TotalPrice,
		PaymentInfo:   paymentInfo,
	}

	result, err := app.orders.Create(r.Context(), order, user)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{
		"success":   true,
		"order":     order,
		"emailSent": result.EmailSent,
	})
}

func (app *application) myOrders(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	orders, err := app.db.GetOrdersByUser(r.Context(), user.ID)
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "orders": orders})
}

func (app *application) showOrder(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := app.db.GetOrder(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	if order.User != user.ID && user.Role != "admin" {
		app.clientError(w, http.StatusForbidden, "this order belongs to another customer")
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "order": order})
}

func (app *application) cancelOrder(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := app.db.GetOrder(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	if order.User != user.ID && user.Role != "admin" {
		app.clientError(w, http.StatusForbidden, "this order belongs to another customer")
		return
	}

	order, err = app.orders.Cancel(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "order": order})
}

// --- ADMIN ORDER HANDLERS ---

func (app *application) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.db.GetAllOrders(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "orders": orders})
}

func (app *application) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target := models.OrderStatus(strings.TrimSpace(input.Status))
	if !target.IsValid() {
		app.clientError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := app.db.GetOrder(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	owner, err := app.users.Get(r.Context(), order.User)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	order, result, err := app.orders.SetStatus(r.Context(), id, target, owner)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"order":     order,
		"emailSent": result.EmailSent,
	})
}

func (app *application) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := app.db.DeleteOrder(r.Context(), id); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}
