package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"botanyco/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type envelope map[string]interface{}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.errorLog.Println(err)
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(dst)
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	app.writeJSON(w, http.StatusInternalServerError, envelope{
		"success": false,
		"message": "internal server error",
	})
}

func (app *application) clientError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"success": false, "message": message})
}

// errorResponse maps the domain sentinels onto the API's error taxonomy:
// not-found, conflict, forbidden, validation, and generic failure.
func (app *application) errorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrReviewNotFound),
		errors.Is(err, models.ErrUserNotFound):
		app.clientError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateReview):
		app.clientError(w, http.StatusConflict, "you have already reviewed this product, update your review instead")
	case errors.Is(err, models.ErrTerminalState),
		errors.Is(err, models.ErrInvalidTransition):
		app.clientError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotEligible):
		app.clientError(w, http.StatusForbidden, "only customers with a delivered order for this product may review it")
	case errors.Is(err, models.ErrPriceMismatch):
		app.clientError(w, http.StatusBadRequest, err.Error())
	default:
		app.serverError(w, err)
	}
}

func (app *application) isAuthenticated(r *http.Request) bool {
	return app.session.Exists(r.Context(), "authenticatedUserID")
}

// currentUser resolves the session's user id to a full user record.
func (app *application) currentUser(r *http.Request) (*models.User, error) {
	idHex := app.session.GetString(r.Context(), "authenticatedUserID")
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, models.ErrUserNotFound
	}
	return app.users.Get(r.Context(), id)
}

// pathID reads an ObjectID from a pat URL parameter.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(r.URL.Query().Get(":" + name))
}

func hexID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}
