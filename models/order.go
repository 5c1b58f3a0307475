package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Order collection name in the document store.
const OrderCollection = "orders"

// Address represents the delivery address attached to an order.
type Address struct {
	FullName   string `bson:"full_name" json:"fullName"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone" json:"phone"`
}

// OrderItem is a single line in an order.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// Order represents a standard purchase order. Payment metadata is opaque to
// this service; it is stored and returned as-is.
type Order struct {
	ID              string      `bson:"-" json:"id"`
	UserID          string      `bson:"user_id" json:"userId"`
	Items           []OrderItem `bson:"items" json:"items"`
	ShippingAddress Address     `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string      `bson:"payment_method" json:"paymentMethod"`
	PaymentResult   bson.M      `bson:"payment_result,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64     `bson:"items_price" json:"itemsPrice"`
	TaxPrice        float64     `bson:"tax_price" json:"taxPrice"`
	ShippingPrice   float64     `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice      float64     `bson:"total_price" json:"totalPrice"`
	IsPaid          bool        `bson:"is_paid" json:"isPaid"`
	PaidAt          *time.Time  `bson:"paid_at" json:"paidAt"`
	IsDelivered     bool        `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt     *time.Time  `bson:"delivered_at" json:"deliveredAt"`
	IsCustomOrder   bool        `bson:"is_custom_order" json:"isCustomOrder"`
	CustomOrderID   *string     `bson:"custom_order_id" json:"customOrderId"`
	CustomDetails   bson.M      `bson:"custom_details,omitempty" json:"customDetails,omitempty"`
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
}

// OrderInput carries the caller-supplied fields for a new order.
type OrderInput struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	ItemsPrice      float64     `json:"itemsPrice"`
	TaxPrice        float64     `json:"taxPrice"`
	ShippingPrice   float64     `json:"shippingPrice"`
	TotalPrice      float64     `json:"totalPrice"`
	IsCustomOrder   bool        `json:"isCustomOrder"`
	CustomOrderID   *string     `json:"customOrderId"`
	CustomDetails   bson.M      `json:"customDetails"`
}

// priceTolerance absorbs float rounding when checking the total.
const priceTolerance = 0.01

// Validate checks the submitted order: non-empty items, non-negative amounts,
// and totalPrice equal to the sum of the component prices.
func (in OrderInput) Validate() error {
	if len(in.Items) == 0 {
		return missingField("items")
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return missingField("items.productId")
		}
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Reason: "must be greater than zero"}
		}
		if item.Price < 0 {
			return &ValidationError{Field: "items.price", Reason: "must not be negative"}
		}
	}
	if in.ItemsPrice < 0 {
		return &ValidationError{Field: "itemsPrice", Reason: "must not be negative"}
	}
	if in.TaxPrice < 0 {
		return &ValidationError{Field: "taxPrice", Reason: "must not be negative"}
	}
	if in.ShippingPrice < 0 {
		return &ValidationError{Field: "shippingPrice", Reason: "must not be negative"}
	}
	if math.Abs(in.TotalPrice-(in.ItemsPrice+in.TaxPrice+in.ShippingPrice)) > priceTolerance {
		return &ValidationError{Field: "totalPrice", Reason: "must equal itemsPrice + taxPrice + shippingPrice"}
	}
	return nil
}

// NewOrder builds an Order for userID from validated input. New orders start
// unpaid and undelivered.
func NewOrder(userID string, in OrderInput) Order {
	return Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
		IsCustomOrder:   in.IsCustomOrder,
		CustomOrderID:   in.CustomOrderID,
		CustomDetails:   in.CustomDetails,
		CreatedAt:       time.Now().UTC(),
	}
}

// Document returns the persisted field mapping, excluding the ID, which is
// the document key.
func (o Order) Document() (bson.M, error) {
	raw, err := bson.Marshal(o)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// OrderFromDocument rebuilds an Order from its stored document and document
// key.
func OrderFromDocument(id string, doc bson.M) (Order, error) {
	var o Order
	raw, err := bson.Marshal(doc)
	if err != nil {
		return o, err
	}
	if err := bson.Unmarshal(raw, &o); err != nil {
		return o, err
	}
	o.ID = id
	return o, nil
}
