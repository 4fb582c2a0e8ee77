package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionTypeManual = "manual"
	CollectionTypeSmart  = "smart"
)

// Condition is the stored shape of a single smart-collection rule. Which of the
// value fields is meaningful depends on Type and Operator; the collections
// package compiles the loose document into a typed predicate and rejects
// invalid combinations.
type Condition struct {
	Type     string   `bson:"type" json:"type"`
	Operator string   `bson:"operator" json:"operator"`
	Value    string   `bson:"value,omitempty" json:"value,omitempty"`
	Number   *float64 `bson:"number,omitempty" json:"number,omitempty"`
	Min      *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `bson:"max,omitempty" json:"max,omitempty"`
}

// UnmarshalJSON accepts the value field as either a string or a number, the
// two shapes the admin form submits depending on the condition type.
func (c *Condition) UnmarshalJSON(data []byte) error {
	type alias Condition
	aux := struct {
		Value interface{} `json:"value"`
		*alias
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Value.(type) {
	case nil:
	case string:
		c.Value = v
	case float64:
		number := v
		c.Number = &number
	default:
		return fmt.Errorf("condition value must be a string or number")
	}
	return nil
}

type Collection struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID         primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Name             string             `bson:"name" json:"name"`
	Slug             string             `bson:"slug" json:"slug"`
	Type             string             `bson:"type" json:"type"`
	Conditions       []Condition        `bson:"conditions" json:"conditions"`
	SortOrder        string             `bson:"sortOrder" json:"sortOrder"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	IsFeatured       bool               `bson:"isFeatured" json:"isFeatured"`
	ShowOnStorefront bool               `bson:"showOnStorefront" json:"showOnStorefront"`
	ShowOnMobileApp  bool               `bson:"showOnMobileApp" json:"showOnMobileApp"`
	ProductCount     int64              `bson:"productCount" json:"productCount"`
	LastSyncedAt     *time.Time         `bson:"lastSyncedAt,omitempty" json:"lastSyncedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CollectionProduct is the manual membership edge: it pins a product into a
// collection outside of rule evaluation.
type CollectionProduct struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollectionID primitive.ObjectID `bson:"collectionId" json:"collectionId"`
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	Position     int                `bson:"position" json:"position"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
