package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sellerhub/internal/models"
)

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	Category    []string `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Stock       *int     `json:"stock" binding:"required"`
	IsActive    *bool    `json:"isActive"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	Category    *[]string `json:"category"`
	Tags        *[]string `json:"tags"`
	Description *string   `json:"description"`
	Stock       *int      `json:"stock"`
	IsActive    *bool     `json:"isActive"`
}

func normalizeStrings(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)

	for _, v := range values {
		name := strings.TrimSpace(v)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

/* =======================
   GET – LIST
======================= */

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/products"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{
			"sellerId":  sellerID,
			"isDeleted": bson.M{"$ne": true},
		}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = bson.M{"$in": []string{category}}
		}

		if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
			filter["tags"] = bson.M{"$in": []string{tag}}
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}

		if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
			filter["isActive"] = strings.EqualFold(isActive, "true")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Pagination is optional here: without page/limit the seller gets the
		// whole filtered list, as on the collection products route.
		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if !paginationRequested(pageStr, limitStr) {
			opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
			cursor, err := db.Collection("products").Find(ctx, filter, opts)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer cursor.Close(ctx)

			products, err := decodeProducts(ctx, cursor)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}

			log.Printf("[%s] returning %d products", route, len(products))
			c.JSON(http.StatusOK, gin.H{"data": products})
			return
		}

		page, limit, err := parsePaginationParams(pageStr, limitStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalPages := int64(1)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, gin.H{
			"data": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		if req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		if req.Stock == nil || *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		product := models.Product{
			SellerID:    sellerID,
			Name:        name,
			Price:       req.Price,
			Category:    models.StringList(normalizeStrings(req.Category)),
			Tags:        models.StringList(normalizeStrings(req.Tags)),
			Description: strings.TrimSpace(req.Description),
			Stock:       *req.Stock,
			InStock:     *req.Stock > 0,
			IsActive:    isActive,
			IsDeleted:   false,
			CreatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("CreateProduct insert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE (PARTIAL)
======================= */

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
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

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		updateSet := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			updateSet["name"] = name
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.Category != nil {
			updateSet["category"] = models.StringList(normalizeStrings(*req.Category))
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(normalizeStrings(*req.Tags))
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be zero or greater"})
				return
			}
			updateSet["stock"] = *req.Stock
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}

		if len(updateSet) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{
				"_id":       id,
				"sellerId":  sellerID,
				"isDeleted": bson.M{"$ne": true},
			},
			bson.M{"$set": updateSet},
		)
		if err != nil {
			log.Println("UpdateProduct update error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		var updated models.Product
		err = db.Collection("products").FindOne(
			ctx,
			bson.M{
				"_id":       id,
				"sellerId":  sellerID,
				"isDeleted": bson.M{"$ne": true},
			},
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updated.InStock = updated.Stock > 0
		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE (SOFT)
======================= */

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
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

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{
				"_id":       id,
				"sellerId":  sellerID,
				"isDeleted": bson.M{"$ne": true},
			},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"deletedAt": now,
				"isActive":  false,
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
