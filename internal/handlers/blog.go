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

type PostCreateRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
	Author  string   `json:"author"`
}

type PostUpdateRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Excerpt *string   `json:"excerpt"`
	Tags    *[]string `json:"tags"`
	Status  *string   `json:"status"`
	Author  *string   `json:"author"`
}

/* =======================
   PUBLIC READS
======================= */

func GetPosts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /posts"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := bson.M{"status": models.PostStatusPublished}

		if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
			filter["tags"] = bson.M{"$in": []string{tag}}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"title": bson.M{"$regex": search, "$options": "i"}},
				{"content": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("blog_posts").CountDocuments(ctx, filter)
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
			SetSort(bson.D{{Key: "publishedAt", Value: -1}})

		cursor, err := db.Collection("blog_posts").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		posts := make([]models.BlogPost, 0)
		if err := cursor.All(ctx, &posts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d posts", route, len(posts))
		c.JSON(http.StatusOK, gin.H{
			"data": posts,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func GetPostBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var post models.BlogPost
		err := db.Collection("blog_posts").FindOne(ctx, bson.M{
			"slug":   slug,
			"status": models.PostStatusPublished,
		}).Decode(&post)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, post)
	}
}

/* =======================
   ADMIN CRUD
======================= */

func CreatePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PostCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		title := strings.TrimSpace(req.Title)
		slug := slugify(title)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain letters or digits"})
			return
		}

		status := req.Status
		if status == "" {
			status = models.PostStatusDraft
		}
		if status != models.PostStatusDraft && status != models.PostStatusPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
			return
		}

		now := time.Now()
		post := models.BlogPost{
			Title:     title,
			Slug:      slug,
			Content:   req.Content,
			Excerpt:   strings.TrimSpace(req.Excerpt),
			Tags:      models.StringList(normalizeStrings(req.Tags)),
			Status:    status,
			Author:    strings.TrimSpace(req.Author),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if status == models.PostStatusPublished {
			post.PublishedAt = &now
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("blog_posts").InsertOne(ctx, post)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "a post with this slug already exists"})
				return
			}
			log.Println("CreatePost insert error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		post.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, post)
	}
}

func UpdatePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req PostUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		updateSet := bson.M{"updatedAt": time.Now()}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			slug := slugify(title)
			if slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain letters or digits"})
				return
			}
			updateSet["title"] = title
			updateSet["slug"] = slug
		}
		if req.Content != nil {
			updateSet["content"] = *req.Content
		}
		if req.Excerpt != nil {
			updateSet["excerpt"] = strings.TrimSpace(*req.Excerpt)
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(normalizeStrings(*req.Tags))
		}
		if req.Author != nil {
			updateSet["author"] = strings.TrimSpace(*req.Author)
		}
		if req.Status != nil {
			status := *req.Status
			if status != models.PostStatusDraft && status != models.PostStatusPublished {
				c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
				return
			}
			updateSet["status"] = status
			if status == models.PostStatusPublished {
				updateSet["publishedAt"] = time.Now()
			}
		}

		if len(updateSet) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("blog_posts").UpdateByID(ctx, id, bson.M{"$set": updateSet})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "a post with this slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		var updated models.BlogPost
		if err := db.Collection("blog_posts").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeletePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("blog_posts").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
	}
}
