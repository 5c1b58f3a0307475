package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// CustomOrder collection name in the document store.
const CustomOrderCollection = "customOrders"

// CustomOrderIDPrefix distinguishes custom order IDs from standard order IDs.
const CustomOrderIDPrefix = "custom-"

// CustomOrder statuses. Any status may be set by an admin regardless of the
// current one; only membership in this set is validated.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusReady      = "ready"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// CustomOrderStatuses is the fixed set of valid statuses. The expected
// progression is pending -> confirmed -> in-progress -> ready -> delivered,
// with cancelled reachable from any non-terminal state.
var CustomOrderStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// ValidCustomOrderStatus reports whether s is a member of the status set.
func ValidCustomOrderStatus(s string) bool {
	for _, v := range CustomOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CustomOrder represents a bespoke cake request.
type CustomOrder struct {
	ID                  string    `bson:"-" json:"id"`
	UserID              string    `bson:"user_id" json:"userId"`
	UserEmail           string    `bson:"user_email" json:"userEmail"`
	Occasion            string    `bson:"occasion" json:"occasion"`
	Size                string    `bson:"size" json:"size"`
	Flavor              string    `bson:"flavor" json:"flavor"`
	Frosting            string    `bson:"frosting" json:"frosting"`
	Filling             string    `bson:"filling" json:"filling"`
	Decorations         string    `bson:"decorations" json:"decorations"`
	Message             string    `bson:"message" json:"message"`
	DeliveryDate        string    `bson:"delivery_date" json:"deliveryDate"`
	DeliveryTime        string    `bson:"delivery_time" json:"deliveryTime"`
	Allergies           string    `bson:"allergies" json:"allergies"`
	SpecialInstructions string    `bson:"special_instructions" json:"specialInstructions"`
	ImageURL            *string   `bson:"image_url" json:"imageUrl"`
	Price               float64   `bson:"price" json:"price"`
	Status              string    `bson:"status" json:"status"`
	CreatedAt           time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updatedAt"`
}

// CustomOrderInput carries the caller-supplied fields for a new custom order.
type CustomOrderInput struct {
	UserID              string  `json:"userId"`
	UserEmail           string  `json:"userEmail"`
	Occasion            string  `json:"occasion"`
	Size                string  `json:"size"`
	Flavor              string  `json:"flavor"`
	Frosting            string  `json:"frosting"`
	Filling             string  `json:"filling"`
	Decorations         string  `json:"decorations"`
	Message             string  `json:"message"`
	DeliveryDate        string  `json:"deliveryDate"`
	DeliveryTime        string  `json:"deliveryTime"`
	Allergies           string  `json:"allergies"`
	SpecialInstructions string  `json:"specialInstructions"`
	Price               float64 `json:"price"`
}

// Validate checks the required fields, returning a ValidationError naming the
// first missing one. The store is schemaless, so all validation happens here.
func (in CustomOrderInput) Validate() error {
	switch {
	case in.UserID == "":
		return missingField("userId")
	case in.UserEmail == "":
		return missingField("userEmail")
	case in.Occasion == "":
		return missingField("occasion")
	case in.Size == "":
		return missingField("size")
	case in.Flavor == "":
		return missingField("flavor")
	case in.Frosting == "":
		return missingField("frosting")
	case in.Decorations == "":
		return missingField("decorations")
	case in.DeliveryDate == "":
		return missingField("deliveryDate")
	}
	if in.Price <= 0 {
		return missingField("price")
	}
	return nil
}

// NewCustomOrder builds a CustomOrder from validated input, applying defaults:
// a prefixed generated ID, status pending, filling "none" when absent.
// imageURL is nil unless a reference image was uploaded.
func NewCustomOrder(in CustomOrderInput, imageURL *string) CustomOrder {
	filling := in.Filling
	if filling == "" {
		filling = "none"
	}
	now := time.Now().UTC()
	return CustomOrder{
		ID:                  CustomOrderIDPrefix + uuid.New().String(),
		UserID:              in.UserID,
		UserEmail:           in.UserEmail,
		Occasion:            in.Occasion,
		Size:                in.Size,
		Flavor:              in.Flavor,
		Frosting:            in.Frosting,
		Filling:             filling,
		Decorations:         in.Decorations,
		Message:             in.Message,
		DeliveryDate:        in.DeliveryDate,
		DeliveryTime:        in.DeliveryTime,
		Allergies:           in.Allergies,
		SpecialInstructions: in.SpecialInstructions,
		ImageURL:            imageURL,
		Price:               in.Price,
		Status:              StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Document returns the persisted field mapping, excluding the ID, which is
// the document key.
func (c CustomOrder) Document() (bson.M, error) {
	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CustomOrderFromDocument rebuilds a CustomOrder from its stored document and
// document key.
func CustomOrderFromDocument(id string, doc bson.M) (CustomOrder, error) {
	var c CustomOrder
	raw, err := bson.Marshal(doc)
	if err != nil {
		return c, err
	}
	if err := bson.Unmarshal(raw, &c); err != nil {
		return c, err
	}
	c.ID = id
	return c, nil
}
