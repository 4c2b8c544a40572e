package main

import (
	"net/http"

	"github.com/bmizerany/pat"
)

func (app *application) routes() http.Handler {
	mux := pat.New()

	mux.Post("/api/v1/register", http.HandlerFunc(app.register))
	mux.Post("/api/v1/login", http.HandlerFunc(app.login))
	mux.Post("/api/v1/logout", http.HandlerFunc(app.logout))

	mux.Get("/api/v1/products", http.HandlerFunc(app.listProducts))
	mux.Get("/api/v1/products/:id", http.HandlerFunc(app.showProduct))

	mux.Get("/api/v1/cart", app.requireAuth(app.getCart))
	mux.Post("/api/v1/cart", app.requireAuth(app.addToCart))
	mux.Del("/api/v1/cart/:productId", app.requireAuth(app.removeFromCart))

	mux.Post("/api/v1/payment/intent", app.requireAuth(app.createPaymentIntent))

	mux.Post("/api/v1/orders", app.requireAuth(app.createOrder))
	mux.Get("/api/v1/orders/me", app.requireAuth(app.myOrders))
	mux.Get("/api/v1/orders/:id", app.requireAuth(app.showOrder))
	mux.Put("/api/v1/orders/:id/cancel", app.requireAuth(app.cancelOrder))

	mux.Get("/api/v1/reviews/eligibility", app.requireAuth(app.canReview))
	mux.Post("/api/v1/products/:id/reviews", app.requireAuth(app.createReview))
	mux.Put("/api/v1/products/:id/reviews", app.requireAuth(app.updateReview))

	mux.Get("/api/v1/admin/dashboard", app.requireRole("admin", app.adminDashboard))
	mux.Post("/api/v1/admin/products", app.requireRole("admin", app.adminCreateProduct))
	mux.Put("/api/v1/admin/products/:id", app.requireRole("admin", app.adminUpdateProduct))
	mux.Del("/api/v1/admin/products/:id/reviews/:reviewId", app.requireRole("admin", app.adminDeleteReview))
	mux.Del("/api/v1/admin/products/:id", app.requireRole("admin", app.adminDeleteProduct))
	mux.Get("/api/v1/admin/orders", app.requireRole("admin", app.adminListOrders))
	mux.Put("/api/v1/admin/orders/:id/status", app.requireRole("admin", app.adminUpdateOrderStatus))
	mux.Del("/api/v1/admin/orders/:id", app.requireRole("admin", app.adminDeleteOrder))
	mux.Get("/api/v1/admin/users", app.requireRole("admin", app.adminListUsers))
	mux.Put("/api/v1/admin/users/:id/role", app.requireRole("admin", app.adminSetUserRole))
	mux.Del("/api/v1/admin/users/:id", app.requireRole("admin", app.adminDeleteUser))

	return app.session.LoadAndSave(app.logRequest(app.recoverPanic(mux)))
}
