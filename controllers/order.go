// controllers/order.go
package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sugarplum-bakes/orders-api/auth"
	"github.com/sugarplum-bakes/orders-api/models"
	"github.com/sugarplum-bakes/orders-api/repository"
)

// OrderController handles standard purchase orders.
type OrderController struct {
	Repo repository.Store
}

// NewOrderController creates a new OrderController.
func NewOrderController(repo repository.Store) *OrderController {
	return &OrderController{Repo: repo}
}

// CreateOrder creates a new order for the authenticated caller. Orders start
// unpaid and undelivered; payment and delivery are confirmed through their
// own endpoints.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := models.NewOrder(p.ID, input)
	doc, err := order.Document()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode order")
		return
	}
	if err := oc.Repo.Save(r.Context(), models.OrderCollection, order.ID, doc); err != nil {
		log.Printf("Failed to save order %s: %v", order.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	respondData(w, http.StatusCreated, order)
}

// GetMyOrders returns the caller's orders, newest-first.
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := oc.Repo.FindByUser(r.Context(), models.OrderCollection, p.ID)
	if err != nil {
		log.Printf("Failed to list orders for %s: %v", p.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	orders, err := decodeOrders(docs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	respondList(w, len(orders), orders)
}

// GetAllOrders returns every order across all users, newest-first. Admin
// only; the route middleware enforces the role.
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	docs, err := oc.Repo.FindAll(r.Context(), models.OrderCollection)
	if err != nil {
		log.Printf("Failed to list orders: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	orders, err := decodeOrders(docs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	respondList(w, len(orders), orders)
}

// GetOrderByID returns a single order, owner or admin only.
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	order, status, msg := oc.loadOrder(r, id)
	if msg != "" {
		respondError(w, status, msg)
		return
	}

	if !auth.CanAccess(p, order.UserID) {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this order")
		return
	}

	respondData(w, http.StatusOK, order)
}

// PayOrder marks an order as paid, recording the opaque payment result and
// the payment timestamp together. Owner or admin only.
func (oc *OrderController) PayOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	order, status, msg := oc.loadOrder(r, id)
	if msg != "" {
		respondError(w, status, msg)
		return
	}

	if !auth.CanAccess(p, order.UserID) {
		respondError(w, http.StatusUnauthorized, "Not authorized to access this order")
		return
	}

	var paymentResult bson.M
	if err := json.NewDecoder(r.Body).Decode(&paymentResult); err != nil {
		paymentResult = bson.M{}
	}

	paidAt := time.Now().UTC()
	update := bson.M{
		"is_paid":        true,
		"paid_at":        paidAt,
		"payment_result": paymentResult,
	}
	if err := oc.Repo.UpdateFields(r.Context(), models.OrderCollection, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("Failed to mark order %s paid: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"isPaid": true,
		"paidAt": paidAt,
	})
}

// DeliverOrder marks an order as delivered. Admin only; the route middleware
// enforces the role.
func (oc *OrderController) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deliveredAt := time.Now().UTC()
	update := bson.M{
		"is_delivered": true,
		"delivered_at": deliveredAt,
	}
	if err := oc.Repo.UpdateFields(r.Context(), models.OrderCollection, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("Failed to mark order %s delivered: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"id":          id,
		"isDelivered": true,
		"deliveredAt": deliveredAt,
	})
}

// loadOrder fetches and decodes one order, mapping failures to an HTTP
// status and message. An empty message means success.
func (oc *OrderController) loadOrder(r *http.Request, id string) (models.Order, int, string) {
	doc, err := oc.Repo.FindByID(r.Context(), models.OrderCollection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Order{}, http.StatusNotFound, "Order not found"
		}
		log.Printf("Failed to find order %s: %v", id, err)
		return models.Order{}, http.StatusInternalServerError, "Failed to retrieve order"
	}

	order, err := models.OrderFromDocument(id, doc)
	if err != nil {
		return models.Order{}, http.StatusInternalServerError, "Failed to decode order"
	}
	return order, http.StatusOK, ""
}

func decodeOrders(docs []repository.Document) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		order, err := models.OrderFromDocument(d.ID, d.Fields)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
