package main

import (
	"net/http"
)

func (app *application) canReview(w http.ResponseWriter, r *http.Request) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	productID, err := hexID(r.URL.Query().Get("productId"))
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ok, err := app.reviews.CanReview(r.Context(), user.ID, productID)
	if err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "canReview": ok})
}

func (app *application) createReview(w http.ResponseWriter, r *http.Request) {
	app.handleReview(w, r, false)
}

func (app *application) updateReview(w http.ResponseWriter, r *http.Request) {
	app.handleReview(w, r, true)
}

func (app *application) handleReview(w http.ResponseWriter, r *http.Request, update bool) {
	user, err := app.currentUser(r)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		app.clientError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	if update {
		err = app.reviews.UpdateReview(r.Context(), user, productID, input.Rating, input.Comment)
	} else {
		err = app.reviews.CreateReview(r.Context(), user, productID, input.Rating, input.Comment)
	}
	if err != nil {
		app.errorResponse(w, err)
		return
	}

	product, err := app.db.GetProduct(r.Context(), productID)
	if err != nil {
		app.errorResponse(w, err)
		return
	}
	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	app.writeJSON(w, status, envelope{"success": true, "product": product})
}

func (app *application) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	reviewID, err := pathID(r, "reviewId")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := app.reviews.DeleteReview(r.Context(), productID, reviewID); err != nil {
		app.errorResponse(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}
