// controllers/custom_order.go
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sugarplum-bakes/orders-api/auth"
	"github.com/sugarplum-bakes/orders-api/models"
	"github.com/sugarplum-bakes/orders-api/repository"
	"github.com/sugarplum-bakes/orders-api/storage"
)

// Notifier delivers customer-facing notifications. Delivery failures are
// logged, never surfaced to the caller.
type Notifier interface {
	SendStatusUpdateEmail(toEmail, orderID, status string) error
}

// CustomOrderController handles custom cake order requests.
type CustomOrderController struct {
	Repo     repository.Store
	Uploads  storage.Uploader
	Notifier Notifier
}

// NewCustomOrderController creates a new CustomOrderController.
func NewCustomOrderController(repo repository.Store, uploads storage.Uploader, notifier Notifier) *CustomOrderController {
	return &CustomOrderController{
		Repo:     repo,
		Uploads:  uploads,
		Notifier: notifier,
	}
}

// CreateCustomOrder creates a new custom cake request for the authenticated
// caller, optionally uploading an attached reference image. The upload
// happens before any document is written, so a failed upload leaves no
// partial order behind.
func (cc *CustomOrderController) CreateCustomOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input, image, err := parseCustomOrderRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.UserID = p.ID
	input.UserEmail = p.Email

	if err := input.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var imageURL *string
	if image != nil {
		defer image.file.Close()
		url, err := cc.Uploads.Upload(r.Context(), image.filename, image.file)
		if err != nil {
			log.Printf("Reference image upload failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to upload reference image")
			return
		}
		imageURL = &url
	}

	order := models.NewCustomOrder(input, imageURL)
	doc, err := order.Document()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode order")
		return
	}
	if err := cc.Repo.Save(r.Context(), models.CustomOrderCollection, order.ID, doc); err != nil {
		log.Printf("Failed to save custom order %s: %v", order.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to create custom order")
		return
	}

	respondData(w, http.StatusCreated, order)
}

// GetMyCustomOrders returns the caller's custom orders, newest-first.
func (cc *CustomOrderController) GetMyCustomOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := cc.Repo.FindByUser(r.Context(), models.CustomOrderCollection, p.ID)
	if err != nil {
		log.Printf("Failed to list custom orders for %s: %v", p.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve custom orders")
		return
	}

	orders, err := decodeCustomOrders(docs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode custom orders")
		return
	}
	respondList(w, len(orders), orders)
}

// GetAllCustomOrders returns every custom order across all users,
// newest-first. Admin only; the route middleware enforces the role.
func (cc *CustomOrderController) GetAllCustomOrders(w http.ResponseWriter, r *http.Request) {
	docs, err := cc.Repo.FindAll(r.Context(), models.CustomOrderCollection)
	if err != nil {
		log.Printf("Failed to list custom orders: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve custom orders")
		return
	}

	orders, err := decodeCustomOrders(docs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode custom orders")
		return
	}
	respondList(w, len(orders), orders)
}

// GetCustomOrderByID returns a single custom order. A caller who is neither
// the owner nor an admin gets an authorization error, not a not-found, so
// existence probing stays distinguishable in logs.
func (cc *CustomOrderController) GetCustomOrderByID(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	doc, err := cc.Repo.FindByID(r.Context(), models.CustomOrderCollection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Custom order not found")
			return
		}
		log.Printf("Failed to find custom order %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve custom order")
		return
	}

	order, err := models.CustomOrderFromDocument(id, doc)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode custom order")
		return
	}

	if !auth.CanAccess(p, order.UserID) {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this order")
		return
	}

	respondData(w, http.StatusOK, order)
}

// UpdateCustomOrderStatus sets a new status on an existing custom order and
// refreshes its updated_at timestamp. Only status-set membership is checked;
// an admin may move an order to any valid status regardless of the current
// one.
func (cc *CustomOrderController) UpdateCustomOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidCustomOrderStatus(body.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status: "+body.Status)
		return
	}

	doc, err := cc.Repo.FindByID(r.Context(), models.CustomOrderCollection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Custom order not found")
			return
		}
		log.Printf("Failed to find custom order %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve custom order")
		return
	}

	order, err := models.CustomOrderFromDocument(id, doc)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode custom order")
		return
	}

	update := bson.M{
		"status":     body.Status,
		"updated_at": time.Now().UTC(),
	}
	if err := cc.Repo.UpdateFields(r.Context(), models.CustomOrderCollection, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Custom order not found")
			return
		}
		log.Printf("Failed to update custom order %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if cc.Notifier != nil {
		go func(email, orderID, status string) {
			if err := cc.Notifier.SendStatusUpdateEmail(email, orderID, status); err != nil {
				log.Printf("Failed to send status email to %s: %v", email, err)
			}
		}(order.UserEmail, id, body.Status)
	}

	respondData(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": body.Status,
	})
}

// uploadedImage is a reference image pulled out of a multipart request.
type uploadedImage struct {
	file     io.ReadCloser
	filename string
}

// parseCustomOrderRequest reads the creation fields from either a JSON body
// or a multipart form with an optional "image" file part.
func parseCustomOrderRequest(r *http.Request) (models.CustomOrderInput, *uploadedImage, error) {
	var input models.CustomOrderInput

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return input, nil, errors.New("Invalid request body")
		}
		return input, nil, nil
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return input, nil, errors.New("Failed to parse multipart form")
	}

	input.Occasion = r.FormValue("occasion")
	input.Size = r.FormValue("size")
	input.Flavor = r.FormValue("flavor")
	input.Frosting = r.FormValue("frosting")
	input.Filling = r.FormValue("filling")
	input.Decorations = r.FormValue("decorations")
	input.Message = r.FormValue("message")
	input.DeliveryDate = r.FormValue("deliveryDate")
	input.DeliveryTime = r.FormValue("deliveryTime")
	input.Allergies = r.FormValue("allergies")
	input.SpecialInstructions = r.FormValue("specialInstructions")
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return input, nil, errors.New("Invalid price")
		}
		input.Price = price
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, nil
		}
		return input, nil, errors.New("Failed to read image")
	}
	return input, &uploadedImage{file: file, filename: header.Filename}, nil
}

func decodeCustomOrders(docs []repository.Document) ([]models.CustomOrder, error) {
	orders := make([]models.CustomOrder, 0, len(docs))
	for _, d := range docs {
		order, err := models.CustomOrderFromDocument(d.ID, d.Fields)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
