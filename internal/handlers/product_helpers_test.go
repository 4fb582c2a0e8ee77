package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeProductDocumentLegacyStringFields(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":     "Test",
		"price":    100.0,
		"stock":    5,
		"category": "Shoes",
		"tags":     "sale",
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if len(product.Category) != 1 || product.Category[0] != "Shoes" {
		t.Fatalf("expected legacy string category to decode as list, got %v", product.Category)
	}
	if len(product.Tags) != 1 || product.Tags[0] != "sale" {
		t.Fatalf("expected legacy string tags to decode as list, got %v", product.Tags)
	}
}

func TestNormalizeProductDocumentStockVariants(t *testing.T) {
	for _, stock := range []interface{}{int32(3), int64(3), float64(3), 3} {
		product, err := normalizeProductDocument(bson.M{
			"name":  "Test",
			"price": 10.0,
			"stock": stock,
		})
		if err != nil {
			t.Fatalf("normalizeProductDocument returned error for %T: %v", stock, err)
		}
		if product.Stock != 3 {
			t.Fatalf("expected stock 3 for %T, got %d", stock, product.Stock)
		}
		if !product.InStock {
			t.Fatalf("expected InStock for %T", stock)
		}
	}

	product, err := normalizeProductDocument(bson.M{"name": "Test", "price": 10.0})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if product.Stock != 0 || product.InStock {
		t.Fatalf("expected missing stock to decode as 0/out of stock, got %d", product.Stock)
	}
}

func TestProductJSONIncludesInStock(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":  "Test",
		"price": 10.0,
		"stock": 2,
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}

	body, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if !strings.Contains(string(body), "\"inStock\":true") {
		t.Fatalf("expected inStock=true in response json, got %s", string(body))
	}
}

func TestPaginationRequested(t *testing.T) {
	if paginationRequested("", "") {
		t.Fatal("expected full-list response when neither page nor limit is supplied")
	}
	if !paginationRequested("2", "") || !paginationRequested("", "10") || !paginationRequested("2", "10") {
		t.Fatal("expected pagination when either page or limit is supplied")
	}
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil || page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d err=%v", page, limit, err)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil || page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d err=%v", page, limit, err)
	}

	if _, _, err := parsePaginationParams("0", "10"); err == nil {
		t.Fatal("expected error for page 0")
	}
	if _, _, err := parsePaginationParams("1", "abc"); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}
