package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sugarplum-bakes/orders-api/auth"
	"github.com/sugarplum-bakes/orders-api/controllers"
	"github.com/sugarplum-bakes/orders-api/models"
)

func orderBody() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "p1", "name": "Carrot Cake", "quantity": 1, "price": 3800},
		},
		"shippingAddress": map[string]string{
			"fullName":   "Ada Crumb",
			"street":     "12 Rolling Pin Lane",
			"city":       "Flourtown",
			"postalCode": "90210",
			"country":    "US",
		},
		"paymentMethod": "card",
		"itemsPrice":    3800,
		"taxPrice":      304,
		"shippingPrice": 396,
		"totalPrice":    4500,
	}
}

func seedOrder(t *testing.T, store *memStore, userID string, createdAt time.Time) models.Order {
	t.Helper()
	order := models.NewOrder(userID, models.OrderInput{
		Items:      []models.OrderItem{{ProductID: "p9", Name: "Mug", Quantity: 2, Price: 1200}},
		ItemsPrice: 2400,
		TotalPrice: 2400,
	})
	order.CreatedAt = createdAt

	doc, err := order.Document()
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), models.OrderCollection, order.ID, doc))
	return order
}

func TestCreateOrder(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)

	req := authedRequest(http.MethodPost, "/api/orders", jsonBody(t, orderBody()), alice)
	rec := httptest.NewRecorder()
	oc.CreateOrder(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, alice.ID, order.UserID)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)

	_, err := store.FindByID(context.Background(), models.OrderCollection, order.ID)
	require.NoError(t, err)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		want   string
	}{
		{"no items", func(b map[string]interface{}) { b["items"] = []map[string]interface{}{} }, "items"},
		{"total mismatch", func(b map[string]interface{}) { b["totalPrice"] = 1 }, "totalPrice"},
		{"negative shipping", func(b map[string]interface{}) { b["shippingPrice"] = -5 }, "shippingPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			oc := controllers.NewOrderController(store)

			body := orderBody()
			tt.mutate(body)

			req := authedRequest(http.MethodPost, "/api/orders", jsonBody(t, body), alice)
			rec := httptest.NewRecorder()
			oc.CreateOrder(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Contains(t, env.Error, tt.want)
			assert.Empty(t, store.coll(models.OrderCollection))
		})
	}
}

func TestGetOrderByIDAuthorization(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)
	order := seedOrder(t, store, alice.ID, time.Now().UTC())

	tests := []struct {
		name       string
		caller     auth.Principal
		id         string
		wantStatus int
	}{
		{"owner", alice, order.ID, http.StatusOK},
		{"admin", staff, order.ID, http.StatusOK},
		{"stranger", bob, order.ID, http.StatusUnauthorized},
		{"missing", alice, "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodGet, "/api/orders/"+tt.id, nil, tt.caller)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})

			rec := httptest.NewRecorder()
			oc.GetOrderByID(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetMyOrdersNewestFirst(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)

	base := time.Now().UTC().Truncate(time.Millisecond)
	older := seedOrder(t, store, alice.ID, base.Add(-time.Hour))
	newer := seedOrder(t, store, alice.ID, base)
	seedOrder(t, store, bob.ID, base)

	req := authedRequest(http.MethodGet, "/api/orders/my-orders", nil, alice)
	rec := httptest.NewRecorder()
	oc.GetMyOrders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, 2, env.Count)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestPayOrder(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)
	order := seedOrder(t, store, alice.ID, time.Now().UTC())

	body := jsonBody(t, map[string]string{"reference": "ch_123", "provider": "stripe"})
	req := authedRequest(http.MethodPut, "/api/orders/"+order.ID+"/pay", body, alice)
	req = mux.SetURLVars(req, map[string]string{"id": order.ID})

	rec := httptest.NewRecorder()
	oc.PayOrder(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := store.FindByID(context.Background(), models.OrderCollection, order.ID)
	require.NoError(t, err)
	paid, err := models.OrderFromDocument(order.ID, doc)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt, "paidAt is set together with isPaid")
	assert.Equal(t, "ch_123", paid.PaymentResult["reference"])
}

func TestPayOrderStrangerRejected(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)
	order := seedOrder(t, store, alice.ID, time.Now().UTC())

	req := authedRequest(http.MethodPut, "/api/orders/"+order.ID+"/pay", nil, bob)
	req = mux.SetURLVars(req, map[string]string{"id": order.ID})

	rec := httptest.NewRecorder()
	oc.PayOrder(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	doc, err := store.FindByID(context.Background(), models.OrderCollection, order.ID)
	require.NoError(t, err)
	current, err := models.OrderFromDocument(order.ID, doc)
	require.NoError(t, err)
	assert.False(t, current.IsPaid)
}

func TestDeliverOrder(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)
	order := seedOrder(t, store, alice.ID, time.Now().UTC())

	req := authedRequest(http.MethodPut, "/api/orders/"+order.ID+"/deliver", nil, staff)
	req = mux.SetURLVars(req, map[string]string{"id": order.ID})

	rec := httptest.NewRecorder()
	oc.DeliverOrder(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := store.FindByID(context.Background(), models.OrderCollection, order.ID)
	require.NoError(t, err)
	delivered, err := models.OrderFromDocument(order.ID, doc)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt, "deliveredAt is set together with isDelivered")
}

func TestDeliverOrderNotFound(t *testing.T) {
	store := newMemStore()
	oc := controllers.NewOrderController(store)

	req := authedRequest(http.MethodPut, "/api/orders/nope/deliver", nil, staff)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	rec := httptest.NewRecorder()
	oc.DeliverOrder(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
