package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"sellerhub/internal/config"
	"sellerhub/internal/database"
	"sellerhub/internal/handlers"
	"sellerhub/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureSellerIndexes(db); err != nil {
		log.Printf("seller index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCollectionIndexes(db); err != nil {
		log.Printf("collection index warning: %v", err)
	}
	if err := database.EnsureCollectionProductIndexes(db); err != nil {
		log.Printf("collection product index warning: %v", err)
	}
	if err := database.EnsureNotificationIndexes(db); err != nil {
		log.Printf("notification index warning: %v", err)
	}
	if err := database.EnsureBlogPostIndexes(db); err != nil {
		log.Printf("blog post index warning: %v", err)
	}

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.SellerAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/posts", handlers.GetPosts(db))
	r.GET("/posts/:slug", handlers.GetPostBySlug(db))

	seller := r.Group("/seller/api")
	seller.Use(middleware.SellerAuth(config.AppEnv.JWTSecret))
	{
		seller.GET("/products", handlers.GetProducts(db))
		seller.POST("/products", handlers.CreateProduct(db))
		seller.PUT("/products/:id", handlers.UpdateProduct(db))
		seller.DELETE("/products/:id", handlers.DeleteProduct(db))

		seller.GET("/collections", handlers.GetCollections(db))
		seller.POST("/collections", handlers.CreateCollection(db))
		seller.POST("/collections/preview", handlers.PreviewCollection(db))
		seller.PUT("/collections/:id", handlers.UpdateCollection(db))
		seller.DELETE("/collections/:id", handlers.DeleteCollection(db))

		seller.POST("/collections/:id/sync", handlers.SyncCollection(db))
		seller.GET("/collections/:id/products", handlers.GetCollectionProducts(db))
		seller.POST("/collections/:id/products", handlers.AddProductsToCollection(db))
		seller.DELETE("/collections/:id/products/:productId", handlers.RemoveProductFromCollection(db))

		seller.GET("/notifications", handlers.GetNotifications(db))
		seller.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead(db))
		seller.PUT("/notifications/:id/read", handlers.MarkNotificationRead(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.POST("/posts", handlers.CreatePost(db))
		admin.PUT("/posts/:id", handlers.UpdatePost(db))
		admin.DELETE("/posts/:id", handlers.DeletePost(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
