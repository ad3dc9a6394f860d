package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Order is a building-materials line item embedded in a Customer document.
// Orders carry no identity of their own: an order's position in the array is
// its only handle for edit/delete/patch.
//
// Quantity and price may be zero or negative; the storage contract does not
// constrain them.
type Order struct {
	Category string  `bson:"category" json:"category" validate:"required"` // e.g. "bricks", "sand", "concrete"
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

// Customer is the root document persisted in the customers collection.
// The ID is assigned by MongoDB on insert and surfaced to clients as its hex
// form. Contact fields are presence-checked only; no format validation.
type Customer struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name"    json:"name"    validate:"required"`
	Email   string             `bson:"email"   json:"email"   validate:"required"`
	Phone   string             `bson:"phone"   json:"phone"   validate:"required"`
	Address string             `bson:"address" json:"address" validate:"required"`
	Orders  []Order            `bson:"orders"  json:"orders"`
}

// NormalizeOrders guarantees the orders sequence is present. A Customer
// always has an orders array — empty, never null — both in storage and on
// the wire.
func (c *Customer) NormalizeOrders() {
	if c.Orders == nil {
		c.Orders = []Order{}
	}
}
