package main

import (
	"encoding/base64"
	"net/http"

	"botanyco/internal/models"
)

type productRequest struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Seller      string   `json:"seller"`
	Images      []string `json:"images"`
}

func (app *application) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input productRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" || input.Price <= 0 || input.Category == "" {
		app.clientError(w, http.StatusBadRequest, "name, a positive price, and category are required")
		return
	}

	uploaded, err := app.uploadImages(r, input.Images)
	if err != nil {
		app.serverError(w, err)
		return
	}

	p := &models.Product{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Stock:       input.Stock,
		Seller:      input.Seller,
		Images:      uploaded,
	}
	if err := app.db.InsertProduct(r.Context(), p); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, envelope{"success": true, "product": p})
}

func (app *application) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var input productRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := app.db.GetProduct(r.Context(), id)
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	p.Name = input.Name
	p.Price = input.Price
	p.Description = input.Description
	p.Category = input.Category
	p.Stock = input.Stock
	p.Seller = input.Seller
	if len(input.Images) > 0 {
		uploaded, err := app.uploadImages(r, input.Images)
		if err != nil {
			app.serverError(w, err)
			return
		}
		app.deleteImages(r, p.Images)
		p.Images = uploaded
	}

	if err := app.db.UpdateProduct(r.Context(), p); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "product": p})
}

func (app *application) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
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
	app.deleteImages(r, p.Images)

	if err := app.db.DeleteProduct(r.Context(), id); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

// uploadImages decodes base64 payloads and stores each one. Uploads happen
// before the product write, so a storage failure aborts the whole request.
func (app *application) uploadImages(r *http.Request, encoded []string) ([]models.Image, error) {
	uploaded := []models.Image{}
	if len(encoded) == 0 {
		return uploaded, nil
	}
	if app.images == nil {
		return uploaded, nil
	}
	for _, e := range encoded {
		data, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, err
		}
		img, err := app.images.Upload(r.Context(), data, "products")
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, img)
	}
	return uploaded, nil
}

// deleteImages is best-effort cleanup; a failed delete leaves an orphan in
// the image store but never fails the product operation.
func (app *application) deleteImages(r *http.Request, imgs []models.Image) {
	if app.images == nil {
		return
	}
	for _, img := range imgs {
		if err := app.images.Delete(r.Context(), img.PublicID); err != nil {
			app.errorLog.Printf("delete image %s: %v", img.PublicID, err)
		}
	}
}

// --- ADMIN USER HANDLERS ---

func (app *application) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := app.users.GetAll(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "users": users})
}

func (app *application) adminSetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var input struct {
		Role string `json:"role"`
	}
	if err := app.readJSON(w, r, &input); err != nil || (input.Role != "user" && input.Role != "admin") {
		app.clientError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}
	if err := app.users.SetRole(r.Context(), id, input.Role); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (app *application) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := app.users.Delete(r.Context(), id); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}

// --- DASHBOARD ---

func (app *application) adminDashboard(w http.ResponseWriter, r *http.Request) {
	totalOrders, err := app.reports.TotalOrders(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	revenue, err := app.reports.TotalRevenue(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	perCustomer, err := app.reports.PerCustomer(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	perMonth, err := app.reports.PerMonth(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"success":      true,
		"totalOrders":  totalOrders,
		"totalRevenue": revenue,
		"perCustomer":  perCustomer,
		"perMonth":     perMonth,
	})
}
