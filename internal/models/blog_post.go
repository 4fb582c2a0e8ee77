package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Content     string             `bson:"content" json:"content"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Tags        StringList         `bson:"tags" json:"tags"`
	Status      string             `bson:"status" json:"status"`
	Author      string             `bson:"author" json:"author"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
