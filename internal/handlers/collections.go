package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sellerhub/internal/collections"
	"sellerhub/internal/models"
)

type CollectionCreateRequest struct {
	Name             string             `json:"name" binding:"required"`
	Type             string             `json:"type" binding:"required"`
	Conditions       []models.Condition `json:"conditions"`
	SortOrder        string             `json:"sortOrder"`
	IsActive         *bool              `json:"isActive"`
	IsFeatured       *bool              `json:"isFeatured"`
	ShowOnStorefront *bool              `json:"showOnStorefront"`
	ShowOnMobileApp  *bool              `json:"showOnMobileApp"`
}

type CollectionUpdateRequest struct {
	Name             *string             `json:"name"`
	Conditions       *[]models.Condition `json:"conditions"`
	SortOrder        *string             `json:"sortOrder"`
	IsActive         *bool               `json:"isActive"`
	IsFeatured       *bool               `json:"isFeatured"`
	ShowOnStorefront *bool               `json:"showOnStorefront"`
	ShowOnMobileApp  *bool               `json:"showOnMobileApp"`
}

// respondConditionError maps a malformed rule list to a 400 naming the
// offending condition; anything else falls through as a generic bad request.
func respondConditionError(c *gin.Context, err error) {
	var invalid *collections.InvalidConditionError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          invalid.Error(),
			"conditionIndex": invalid.Index,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondMembershipError routes a membership-resolution failure: a malformed
// rule list is the caller's fault, anything else is a persistence failure and
// must not leak driver error text as a 400.
func respondMembershipError(c *gin.Context, route string, err error) {
	var invalid *collections.InvalidConditionError
	if errors.As(err, &invalid) {
		respondConditionError(c, err)
		return
	}
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

func findSellerCollection(ctx context.Context, db *mongo.Database, sellerID, id primitive.ObjectID) (models.Collection, error) {
	var collection models.Collection
	err := db.Collection("collections").FindOne(ctx, bson.M{
		"_id":      id,
		"sellerId": sellerID,
	}).Decode(&collection)
	return collection, err
}

/* =======================
   GET – LIST
======================= */

func GetCollections(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/collections"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		filter := bson.M{"sellerId": sellerID}

		if collectionType := strings.TrimSpace(c.Query("type")); collectionType != "" {
			filter["type"] = collectionType
		}
		if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
			filter["isActive"] = strings.EqualFold(isActive, "true")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("collections").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		list := make([]models.Collection, 0)
		if err := cursor.All(ctx, &list); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d collections", route, len(list))
		c.JSON(http.StatusOK, list)
	}
}

/* =======================
   CREATE
======================= */

func CreateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CollectionCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		if req.Type != models.CollectionTypeManual && req.Type != models.CollectionTypeSmart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be manual or smart"})
			return
		}

		conditions := req.Conditions
		if req.Type == models.CollectionTypeManual {
			// Conditions are meaningless on a manual collection.
			conditions = nil
		} else if err := collections.ValidateConditions(conditions); err != nil {
			respondConditionError(c, err)
			return
		}
		if conditions == nil {
			conditions = []models.Condition{}
		}

		sortOrder := req.SortOrder
		if sortOrder == "" {
			sortOrder = collections.SortManual
		}
		if !collections.ValidSortOrder(sortOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sortOrder"})
			return
		}

		slug := slugify(name)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must contain letters or digits"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		collection := models.Collection{
			SellerID:         sellerID,
			Name:             name,
			Slug:             slug,
			Type:             req.Type,
			Conditions:       conditions,
			SortOrder:        sortOrder,
			IsActive:         isActive,
			IsFeatured:       req.IsFeatured != nil && *req.IsFeatured,
			ShowOnStorefront: req.ShowOnStorefront == nil || *req.ShowOnStorefront,
			ShowOnMobileApp:  req.ShowOnMobileApp == nil || *req.ShowOnMobileApp,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("collections").InsertOne(ctx, collection)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "a collection with this name already exists"})
				return
			}
			log.Println("CreateCollection insert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		collection.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, collection)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CollectionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		existing, err := findSellerCollection(ctx, db, sellerID, id)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updateSet := bson.M{"updatedAt": time.Now()}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			slug := slugify(name)
			if slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name must contain letters or digits"})
				return
			}
			updateSet["name"] = name
			updateSet["slug"] = slug
		}
		if req.Conditions != nil {
			if existing.Type != models.CollectionTypeSmart {
				c.JSON(http.StatusBadRequest, gin.H{"error": "conditions are only valid on smart collections"})
				return
			}
			if err := collections.ValidateConditions(*req.Conditions); err != nil {
				respondConditionError(c, err)
				return
			}
			updateSet["conditions"] = *req.Conditions
		}
		if req.SortOrder != nil {
			if !collections.ValidSortOrder(*req.SortOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sortOrder"})
				return
			}
			updateSet["sortOrder"] = *req.SortOrder
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updateSet["isFeatured"] = *req.IsFeatured
		}
		if req.ShowOnStorefront != nil {
			updateSet["showOnStorefront"] = *req.ShowOnStorefront
		}
		if req.ShowOnMobileApp != nil {
			updateSet["showOnMobileApp"] = *req.ShowOnMobileApp
		}

		if len(updateSet) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		_, err = db.Collection("collections").UpdateOne(
			ctx,
			bson.M{"_id": id, "sellerId": sellerID},
			bson.M{"$set": updateSet},
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "a collection with this name already exists"})
				return
			}
			log.Println("UpdateCollection update error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updated, err := findSellerCollection(ctx, db, sellerID, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE
======================= */

func DeleteCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("collections").DeleteOne(ctx, bson.M{
			"_id":      id,
			"sellerId": sellerID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}

		// Membership edges die with the collection.
		if _, err := db.Collection("collection_products").DeleteMany(ctx, bson.M{"collectionId": id}); err != nil {
			log.Println("DeleteCollection link cleanup error:", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "collection deleted"})
	}
}
