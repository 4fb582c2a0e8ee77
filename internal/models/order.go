package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem represents a single product entry within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is read-mostly in this service: it is the source of the sales counts
// behind best-selling collection sorting.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID   primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Items      []OrderItem        `bson:"items" json:"items"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
