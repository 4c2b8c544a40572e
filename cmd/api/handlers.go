package main

import (
	"errors"
	"net/http"
	"strconv"

	"botanyco/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// --- AUTH HANDLERS ---

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" || len(input.Password) < 8 {
		app.clientError(w, http.StatusBadRequest, "name, email, and a password of at least 8 characters are required")
		return
	}

	user, err := app.users.Insert(r.Context(), input.Name, input.Email, input.Password, "user")
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			app.clientError(w, http.StatusConflict, "email address is already registered")
			return
		}
		app.serverError(w, err)
		return
	}

	app.session.Put(r.Context(), "authenticatedUserID", user.ID.Hex())
	app.session.Put(r.Context(), "userRole", user.Role)
	app.writeJSON(w, http.StatusCreated, envelope{"success": true, "user": user})
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := app.users.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			app.clientError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		app.serverError(w, err)
		return
	}

	app.session.Put(r.Context(), "authenticatedUserID", user.ID.Hex())
	app.session.Put(r.Context(), "userRole", user.Role)
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	app.session.Remove(r.Context(), "authenticatedUserID")
	if err := app.session.Destroy(r.Context()); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

// --- CATALOG HANDLERS ---

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if perPage <= 0 || perPage > 50 {
		perPage = 10
	}

	products, total, err := app.db.GetProducts(r.Context(), models.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"products": products,
		"total":    total,
	})
}

func (app *application) showProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := app.db.GetProduct(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "product": p})
}

// --- CART HANDLERS ---

func (app *application) getCart(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	items, err := app.db.GetCart(r.Context(), user.ID)
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "cart": items})
}

func (app *application) addToCart(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := app.readJSON(w, r, &input); err != nil || input.Quantity < 1 {
		app.clientError(w, http.StatusBadRequest, "productId and a positive quantity are required")
		return
	}
	productID, err := hexID(input.ProductID)
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := app.db.GetProduct(r.Context(), productID)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	item := models.CartItem{
		User:     user.ID,
		Product:  p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: input.Quantity,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0].URL
	}
	if err := app.db.UpsertCartItem(r.Context(), item); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (app *application) removeFromCart(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := app.db.RemoveCartItem(r.Context(), user.ID, productID); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}
