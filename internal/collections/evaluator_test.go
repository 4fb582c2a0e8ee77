package collections

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sellerhub/internal/models"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: primitive.NewObjectID(), Name: "Cheap Sale", Price: 10, Stock: 5, Tags: models.StringList{"sale"}, Category: models.StringList{"shoes"}},
		{ID: primitive.NewObjectID(), Name: "New Arrival", Price: 60, Stock: 0, Tags: models.StringList{"new"}, Category: models.StringList{"shoes"}},
		{ID: primitive.NewObjectID(), Name: "Mid Sale", Price: 30, Stock: 2, Tags: models.StringList{"sale", "new"}, Category: models.StringList{"bags"}},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestEvaluateEmptyConditionsMatchesNothing(t *testing.T) {
	matches, err := Evaluate(nil, testCatalog())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches for empty conditions, got %d", len(matches))
	}
}

func TestEvaluatePriceAndTagConditions(t *testing.T) {
	conditions := []models.Condition{
		{Type: ConditionPrice, Operator: OpLessThan, Number: floatPtr(50)},
		{Type: ConditionTag, Operator: OpContains, Value: "sale"},
	}

	matches, err := Evaluate(conditions, testCatalog())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Price != 10 || matches[1].Price != 30 {
		t.Fatalf("expected prices 10 and 30, got %v and %v", matches[0].Price, matches[1].Price)
	}
}

func TestEvaluateAndSemanticsIsIntersection(t *testing.T) {
	catalog := testCatalog()
	priceOnly := []models.Condition{{Type: ConditionPrice, Operator: OpLessThan, Number: floatPtr(50)}}
	tagOnly := []models.Condition{{Type: ConditionTag, Operator: OpContains, Value: "sale"}}
	both := append(append([]models.Condition{}, priceOnly...), tagOnly...)

	combined, err := Evaluate(both, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	priceMatches, err := Evaluate(priceOnly, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	tagMatches, err := Evaluate(tagOnly, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	inTag := make(map[primitive.ObjectID]bool)
	for _, p := range tagMatches {
		inTag[p.ID] = true
	}
	intersection := make(map[primitive.ObjectID]bool)
	for _, p := range priceMatches {
		if inTag[p.ID] {
			intersection[p.ID] = true
		}
	}

	if len(combined) != len(intersection) {
		t.Fatalf("expected combined result size %d, got %d", len(intersection), len(combined))
	}
	for _, p := range combined {
		if !intersection[p.ID] {
			t.Fatalf("product %s in combined result but not in intersection", p.ID.Hex())
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	catalog := testCatalog()
	conditions := []models.Condition{{Type: ConditionTag, Operator: OpContains, Value: "sale"}}

	first, err := Evaluate(conditions, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	second, err := Evaluate(conditions, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical result sizes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("result order differs at index %d", i)
		}
	}
}

func TestEvaluatePriceBetweenInclusiveBounds(t *testing.T) {
	conditions := []models.Condition{
		{Type: ConditionPrice, Operator: OpBetween, Min: floatPtr(20), Max: floatPtr(40)},
	}

	matches, err := Evaluate(conditions, testCatalog())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Price != 30 {
		t.Fatalf("expected only the price 30 product, got %d matches", len(matches))
	}

	// Bounds are inclusive on both ends.
	exact := []models.Condition{
		{Type: ConditionPrice, Operator: OpBetween, Min: floatPtr(10), Max: floatPtr(10)},
	}
	matches, err = Evaluate(exact, testCatalog())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Price != 10 {
		t.Fatalf("expected inclusive bounds to match price 10, got %d matches", len(matches))
	}
}

func TestEvaluateStockConditions(t *testing.T) {
	catalog := testCatalog()

	outOfStock := []models.Condition{{Type: ConditionStock, Operator: OpOutOfStock}}
	matches, err := Evaluate(outOfStock, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Stock != 0 {
		t.Fatalf("expected only the zero-stock product, got %d matches", len(matches))
	}

	inStock := []models.Condition{{Type: ConditionStock, Operator: OpInStock}}
	matches, err = Evaluate(inStock, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 in-stock products, got %d", len(matches))
	}
}

func TestEvaluateTagEqualsIsExactCaseInsensitive(t *testing.T) {
	catalog := []models.Product{
		{ID: primitive.NewObjectID(), Name: "A", Tags: models.StringList{"Summer-Sale"}},
		{ID: primitive.NewObjectID(), Name: "B", Tags: models.StringList{"sale"}},
	}

	equals := []models.Condition{{Type: ConditionTag, Operator: OpEquals, Value: "Sale"}}
	matches, err := Evaluate(equals, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "B" {
		t.Fatalf("expected exact match on product B only, got %d matches", len(matches))
	}

	contains := []models.Condition{{Type: ConditionTag, Operator: OpContains, Value: "sale"}}
	matches, err = Evaluate(contains, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected substring match on both products, got %d matches", len(matches))
	}
}

func TestEvaluateCategoryConditions(t *testing.T) {
	catalog := testCatalog()

	equals := []models.Condition{{Type: ConditionCategory, Operator: OpEquals, Value: "shoes"}}
	matches, err := Evaluate(equals, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 shoes products, got %d", len(matches))
	}

	notEquals := []models.Condition{{Type: ConditionCategory, Operator: OpNotEquals, Value: "shoes"}}
	matches, err = Evaluate(notEquals, catalog)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Mid Sale" {
		t.Fatalf("expected only the bags product, got %d matches", len(matches))
	}
}

func TestEvaluateRejectsMalformedConditions(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name      string
		condition models.Condition
	}{
		{"unknown type", models.Condition{Type: "vendor", Operator: OpEquals, Value: "x"}},
		{"wrong operator for tag", models.Condition{Type: ConditionTag, Operator: OpGreaterThan, Value: "x"}},
		{"tag without value", models.Condition{Type: ConditionTag, Operator: OpContains}},
		{"price without value", models.Condition{Type: ConditionPrice, Operator: OpLessThan}},
		{"between missing max", models.Condition{Type: ConditionPrice, Operator: OpBetween, Min: floatPtr(5)}},
		{"between min above max", models.Condition{Type: ConditionPrice, Operator: OpBetween, Min: floatPtr(50), Max: floatPtr(5)}},
		{"stock with wrong operator", models.Condition{Type: ConditionStock, Operator: OpEquals}},
	}

	for _, tc := range tests {
		valid := models.Condition{Type: ConditionStock, Operator: OpInStock}
		_, err := Evaluate([]models.Condition{valid, tc.condition}, catalog)
		if err == nil {
			t.Fatalf("%s: expected error, got none", tc.name)
		}

		var invalid *InvalidConditionError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidConditionError, got %T", tc.name, err)
		}
		if invalid.Index != 1 {
			t.Fatalf("%s: expected offending index 1, got %d", tc.name, invalid.Index)
		}
	}
}

func TestEvaluateAcceptsNumericStringValues(t *testing.T) {
	conditions := []models.Condition{
		{Type: ConditionPrice, Operator: OpLessThan, Value: "50"},
	}
	matches, err := Evaluate(conditions, testCatalog())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for string-valued price condition, got %d", len(matches))
	}
}
