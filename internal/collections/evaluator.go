package collections

import "sellerhub/internal/models"

// Evaluate returns the catalog products that satisfy every condition. The
// conditions are a logical AND; there is no OR or grouping support.
//
// An empty condition list matches nothing: a smart collection without rules is
// governed solely by its manual links. Evaluation is a pure filter over the
// input slice and holds no state between calls.
func Evaluate(conditions []models.Condition, catalog []models.Product) ([]models.Product, error) {
	predicates, err := Compile(conditions)
	if err != nil {
		return nil, err
	}

	if len(predicates) == 0 {
		return []models.Product{}, nil
	}

	matches := make([]models.Product, 0)
	for _, product := range catalog {
		if matchesAll(predicates, product) {
			matches = append(matches, product)
		}
	}

	return matches, nil
}

func matchesAll(predicates []Predicate, product models.Product) bool {
	for _, predicate := range predicates {
		if !predicate.Matches(product) {
			return false
		}
	}
	return true
}
