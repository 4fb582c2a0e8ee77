package collections

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sellerhub/internal/models"
)

func TestSortPriceOrders(t *testing.T) {
	products := testCatalog()

	asc := Sort(products, SortPriceAsc, nil)
	if asc[0].Price != 10 || asc[1].Price != 30 || asc[2].Price != 60 {
		t.Fatalf("expected ascending prices, got %v %v %v", asc[0].Price, asc[1].Price, asc[2].Price)
	}

	desc := Sort(products, SortPriceDesc, nil)
	if desc[0].Price != 60 || desc[2].Price != 10 {
		t.Fatalf("expected descending prices, got %v ... %v", desc[0].Price, desc[2].Price)
	}
}

func TestSortByNameIsStableOnEqualTitles(t *testing.T) {
	first := models.Product{ID: primitive.NewObjectID(), Name: "Same", Price: 1}
	second := models.Product{ID: primitive.NewObjectID(), Name: "Same", Price: 2}

	sorted := Sort([]models.Product{first, second}, SortNameAsc, nil)
	if sorted[0].ID != first.ID || sorted[1].ID != second.ID {
		t.Fatal("expected equal titles to retain relative input order")
	}
}

func TestSortByCreationTime(t *testing.T) {
	now := time.Now()
	older := models.Product{ID: primitive.NewObjectID(), Name: "older", CreatedAt: now.Add(-time.Hour)}
	newer := models.Product{ID: primitive.NewObjectID(), Name: "newer", CreatedAt: now}

	newest := Sort([]models.Product{older, newer}, SortNewest, nil)
	if newest[0].ID != newer.ID {
		t.Fatal("expected newest first")
	}

	oldest := Sort([]models.Product{newer, older}, SortOldest, nil)
	if oldest[0].ID != older.ID {
		t.Fatal("expected oldest first")
	}
}

func TestSortBestSellingUsesExternalMetric(t *testing.T) {
	products := testCatalog()
	sales := map[string]int64{
		products[1].ID.Hex(): 12,
		products[2].ID.Hex(): 40,
	}

	sorted := Sort(products, SortBestSelling, sales)
	if sorted[0].ID != products[2].ID || sorted[1].ID != products[1].ID {
		t.Fatal("expected products ordered by descending sales count")
	}
	// Missing from the metric ranks as zero, at the end.
	if sorted[2].ID != products[0].ID {
		t.Fatal("expected product without sales last")
	}
}

func TestSortManualKeepsInputOrder(t *testing.T) {
	products := testCatalog()
	sorted := Sort(products, SortManual, nil)
	for i := range products {
		if sorted[i].ID != products[i].ID {
			t.Fatalf("manual sort reordered index %d", i)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	products := testCatalog()
	firstID := products[0].ID

	Sort(products, SortPriceDesc, nil)
	if products[0].ID != firstID {
		t.Fatal("Sort mutated its input slice")
	}
}

func TestValidSortOrder(t *testing.T) {
	for _, order := range []string{SortManual, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortNewest, SortOldest, SortBestSelling} {
		if !ValidSortOrder(order) {
			t.Fatalf("expected %q to be valid", order)
		}
	}
	if ValidSortOrder("popularity") {
		t.Fatal("expected unknown sort order to be invalid")
	}
}
