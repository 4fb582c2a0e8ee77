package handlers

import (
	"context"
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

// sellerNotificationFilter matches the seller's own notifications plus
// broadcasts, which carry no sellerId.
func sellerNotificationFilter(sellerID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"sellerId": sellerID},
			{"sellerId": bson.M{"$exists": false}},
		},
	}
}

func GetNotifications(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/notifications"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := sellerNotificationFilter(sellerID)
		if unread := strings.TrimSpace(c.Query("unread")); strings.EqualFold(unread, "true") {
			filter["isRead"] = false
		}
		if notificationType := strings.TrimSpace(c.Query("type")); notificationType != "" {
			filter["type"] = notificationType
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("notifications").CountDocuments(ctx, filter)
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

		cursor, err := db.Collection("notifications").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		list := make([]models.Notification, 0)
		if err := cursor.All(ctx, &list); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": list,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func MarkNotificationRead(db *mongo.Database) gin.HandlerFunc {
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

		filter := sellerNotificationFilter(sellerID)
		filter["_id"] = id

		res, err := db.Collection("notifications").UpdateOne(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
	}
}

func MarkAllNotificationsRead(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		filter := sellerNotificationFilter(sellerID)
		filter["isRead"] = false

		res, err := db.Collection("notifications").UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"marked": res.ModifiedCount})
	}
}
