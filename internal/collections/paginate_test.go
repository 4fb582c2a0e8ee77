package collections

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sellerhub/internal/models"
)

func makeProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{ID: primitive.NewObjectID()}
	}
	return products
}

func TestPaginateEmptySetHasOnePage(t *testing.T) {
	page := Paginate(nil, 1, 20)
	if page.TotalPages != 1 {
		t.Fatalf("expected totalPages 1 for empty set, got %d", page.TotalPages)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(page.Items))
	}
}

func TestPaginateSplitsPages(t *testing.T) {
	products := makeProducts(5)

	first := Paginate(products, 1, 2)
	if first.TotalPages != 3 || first.Total != 5 {
		t.Fatalf("expected 3 pages of 5 items, got totalPages=%d total=%d", first.TotalPages, first.Total)
	}
	if len(first.Items) != 2 || first.Items[0].ID != products[0].ID {
		t.Fatal("expected first page to hold the first two products")
	}

	last := Paginate(products, 3, 2)
	if len(last.Items) != 1 || last.Items[0].ID != products[4].ID {
		t.Fatal("expected last page to hold the final product")
	}
}

func TestPaginatePastEndReturnsEmptyItems(t *testing.T) {
	products := makeProducts(5)

	page := Paginate(products, 4, 2)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty items past the end, got %d", len(page.Items))
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected totalPages 3, got %d", page.TotalPages)
	}
}

func TestPaginateHugePageNumberReturnsEmptyItems(t *testing.T) {
	products := makeProducts(3)

	// A page number large enough to overflow the offset multiplication must
	// still come back as an empty window, not a panic.
	page := Paginate(products, 1<<62, 20)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty items for huge page number, got %d", len(page.Items))
	}
	if page.TotalPages != 1 {
		t.Fatalf("expected totalPages 1, got %d", page.TotalPages)
	}

	page = Paginate(products, int64(^uint64(0)>>1), 1)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty items for max page number, got %d", len(page.Items))
	}
}

func TestPaginatePageBelowOneReturnsEmptyItems(t *testing.T) {
	page := Paginate(makeProducts(3), 0, 2)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty items for page 0, got %d", len(page.Items))
	}
}
