package handlers

import (
	"context"
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

// PreviewRequest carries an unsaved rule list. An empty list is legal and
// matches nothing.
type PreviewRequest struct {
	Conditions []models.Condition `json:"conditions"`
}

type AddProductsRequest struct {
	ProductID  string   `json:"productId"`
	ProductIDs []string `json:"productIds"`
}

/* =======================
   PREVIEW
======================= */

// PreviewCollection evaluates a condition list against the seller's catalog
// without persisting anything: the admin form calls this before saving.
func PreviewCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seller/api/collections/preview"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		catalog, err := fetchSellerCatalog(ctx, db, sellerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		matches, err := collections.Evaluate(req.Conditions, catalog)
		if err != nil {
			respondConditionError(c, err)
			return
		}

		log.Printf("[%s] %d of %d products match", route, len(matches), len(catalog))
		c.JSON(http.StatusOK, gin.H{
			"data":  matches,
			"count": len(matches),
		})
	}
}

/* =======================
   SYNC
======================= */

// SyncCollection re-runs rule evaluation for a saved smart collection and
// stores the materialized count. Membership itself stays computed at read
// time; the stored count is advisory for the collection list screen.
func SyncCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seller/api/collections/:id/sync"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection, err := findSellerCollection(ctx, db, sellerID, id)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if collection.Type != models.CollectionTypeSmart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only smart collections can be synced"})
			return
		}

		catalog, err := fetchSellerCatalog(ctx, db, sellerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		matches, err := collections.Evaluate(collection.Conditions, catalog)
		if err != nil {
			respondConditionError(c, err)
			return
		}

		now := time.Now()
		_, err = db.Collection("collections").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"productCount": int64(len(matches)),
			"lastSyncedAt": now,
		}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] collection %s matched %d products", route, id.Hex(), len(matches))
		c.JSON(http.StatusOK, gin.H{
			"matched":  len(matches),
			"syncedAt": now,
		})
	}
}

/* =======================
   READ – MEMBERS
======================= */

func GetCollectionProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/collections/:id/products"
		defer handlePanic(c, route)

		sellerID, ok := sellerIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection, err := findSellerCollection(ctx, db, sellerID, id)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		sortOrder := collection.SortOrder
		if override := strings.TrimSpace(c.Query("sort")); override != "" {
			if !collections.ValidSortOrder(override) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort order"})
				return
			}
			sortOrder = override
		}

		members, err := resolveCollectionMembers(ctx, db, sellerID, collection)
		if err != nil {
			respondMembershipError(c, route, err)
			return
		}

		var salesCount map[string]int64
		if sortOrder == collections.SortBestSelling {
			salesCount, err = fetchSalesCounts(ctx, db, sellerID)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		sorted := collections.Sort(members, sortOrder, salesCount)

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if !paginationRequested(pageStr, limitStr) {
			log.Printf("[%s] returning %d products", route, len(sorted))
			c.JSON(http.StatusOK, gin.H{"data": sorted})
			return
		}

		page, limit, err := parsePaginationParams(pageStr, limitStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		window := collections.Paginate(sorted, page, limit)
		c.JSON(http.StatusOK, gin.H{
			"data": window.Items,
			"pagination": gin.H{
				"page":       window.Page,
				"limit":      window.PageSize,
				"total":      window.Total,
				"totalPages": window.TotalPages,
			},
		})
	}
}

// resolveCollectionMembers runs the evaluator and resolver for one collection.
// Stored conditions were validated at write time; a compile error here means a
// legacy document and surfaces as an invalid-condition error, never a partial
// result.
func resolveCollectionMembers(ctx context.Context, db *mongo.Database, sellerID primitive.ObjectID, collection models.Collection) ([]models.Product, error) {
	var ruleMatches []models.Product
	if collection.Type == models.CollectionTypeSmart {
		catalog, err := fetchSellerCatalog(ctx, db, sellerID)
		if err != nil {
			return nil, err
		}
		ruleMatches, err = collections.Evaluate(collection.Conditions, catalog)
		if err != nil {
			return nil, err
		}
	}

	links, err := fetchCollectionLinks(ctx, db, collection.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ProductID)
	}
	productsByID, err := fetchProductsByID(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	return collections.ResolveMembership(collection, ruleMatches, links, productsByID), nil
}

func fetchCollectionLinks(ctx context.Context, db *mongo.Database, collectionID primitive.ObjectID) ([]models.CollectionProduct, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := db.Collection("collection_products").Find(ctx, bson.M{"collectionId": collectionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	links := make([]models.CollectionProduct, 0)
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// fetchSalesCounts aggregates order line items into units sold per product,
// the external metric behind best_selling.
func fetchSalesCounts(ctx context.Context, db *mongo.Database, sellerID primitive.ObjectID) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"sellerId": sellerID}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$items.productId",
			"total": bson.M{"$sum": "$items.quantity"},
		}}},
	}

	cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Total int64              `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID.Hex()] = row.Total
	}
	return counts, cursor.Err()
}

/* =======================
   MANUAL LINKS
======================= */

// AddProductsToCollection pins one or more products into a collection. For a
// smart collection this is an additive override: the product joins the
// membership even when it fails the rules.
func AddProductsToCollection(db *mongo.Database) gin.HandlerFunc {
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

		var req AddProductsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		rawIDs := req.ProductIDs
		if strings.TrimSpace(req.ProductID) != "" {
			rawIDs = append(rawIDs, req.ProductID)
		}
		if len(rawIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId or productIds required"})
			return
		}

		productIDs := make([]primitive.ObjectID, 0, len(rawIDs))
		for _, raw := range rawIDs {
			productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId: " + raw})
				return
			}
			productIDs = append(productIDs, productID)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := findSellerCollection(ctx, db, sellerID, id); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		existing, err := fetchProductsByID(ctx, db, productIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		for _, productID := range productIDs {
			product, ok := existing[productID]
			if !ok || product.SellerID != sellerID {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found: " + productID.Hex()})
				return
			}
		}

		position, err := nextLinkPosition(ctx, db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		added := 0
		now := time.Now()
		for _, productID := range productIDs {
			link := models.CollectionProduct{
				CollectionID: id,
				ProductID:    productID,
				Position:     position,
				CreatedAt:    now,
			}
			if _, err := db.Collection("collection_products").InsertOne(ctx, link); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					// Already linked; re-adding is idempotent.
					continue
				}
				log.Println("AddProductsToCollection insert error:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			added++
			position++
		}

		c.JSON(http.StatusOK, gin.H{
			"added":     added,
			"requested": len(productIDs),
		})
	}
}

func nextLinkPosition(ctx context.Context, db *mongo.Database, collectionID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var last models.CollectionProduct
	err := db.Collection("collection_products").FindOne(ctx, bson.M{"collectionId": collectionID}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Position + 1, nil
}

// RemoveProductFromCollection drops the manual link only. A product that
// independently satisfies a smart collection's rules stays a member; the
// response says so via stillMatchesRules.
func RemoveProductFromCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /seller/api/collections/:id/products/:productId"

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

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		collection, err := findSellerCollection(ctx, db, sellerID, id)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		res, err := db.Collection("collection_products").DeleteOne(ctx, bson.M{
			"collectionId": id,
			"productId":    productID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		stillMatches := false
		if collection.Type == models.CollectionTypeSmart {
			stillMatches, err = productMatchesRules(ctx, db, collection, productID)
			if err != nil {
				respondMembershipError(c, route, err)
				return
			}
		}

		if res.DeletedCount == 0 && !stillMatches {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not in collection"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"removed":           res.DeletedCount > 0,
			"stillMatchesRules": stillMatches,
		})
	}
}

func productMatchesRules(ctx context.Context, db *mongo.Database, collection models.Collection, productID primitive.ObjectID) (bool, error) {
	byID, err := fetchProductsByID(ctx, db, []primitive.ObjectID{productID})
	if err != nil {
		return false, err
	}
	product, ok := byID[productID]
	if !ok {
		return false, nil
	}

	matches, err := collections.Evaluate(collection.Conditions, []models.Product{product})
	if err != nil {
		return false, err
	}
	return len(matches) == 1, nil
}
