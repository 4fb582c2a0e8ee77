package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationTypeSystem = "system"
	NotificationTypeOrder  = "order"
	NotificationTypePayout = "payout"
	NotificationTypeAlert  = "alert"
)

// Notification targets a single seller; a zero SellerID marks a broadcast
// visible to every account.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID  primitive.ObjectID `bson:"sellerId,omitempty" json:"sellerId,omitempty"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
