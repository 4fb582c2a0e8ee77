package collections

import (
	"fmt"
	"strconv"
	"strings"

	"sellerhub/internal/models"
)

// Condition types and the operator set valid for each. A pair outside these
// sets is a configuration error, never something to skip over.
const (
	ConditionTag      = "tag"
	ConditionPrice    = "price"
	ConditionCategory = "category"
	ConditionStock    = "stock"

	OpContains    = "contains"
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpBetween     = "between"
	OpInStock     = "in_stock"
	OpOutOfStock  = "out_of_stock"
)

// InvalidConditionError reports a malformed condition by its position in the
// rule list.
type InvalidConditionError struct {
	Index  int
	Reason string
}

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("condition %d is invalid: %s", e.Index, e.Reason)
}

func invalidCondition(index int, format string, args ...interface{}) error {
	return &InvalidConditionError{Index: index, Reason: fmt.Sprintf(format, args...)}
}

// Predicate is a single compiled condition.
type Predicate interface {
	Matches(p models.Product) bool
}

type tagPredicate struct {
	value string
	exact bool
}

func (t tagPredicate) Matches(p models.Product) bool {
	for _, tag := range p.Tags {
		lowered := strings.ToLower(strings.TrimSpace(tag))
		if t.exact {
			if lowered == t.value {
				return true
			}
			continue
		}
		if strings.Contains(lowered, t.value) {
			return true
		}
	}
	return false
}

type priceComparePredicate struct {
	greaterThan bool
	value       float64
}

func (pc priceComparePredicate) Matches(p models.Product) bool {
	if pc.greaterThan {
		return p.Price > pc.value
	}
	return p.Price < pc.value
}

type priceBetweenPredicate struct {
	min float64
	max float64
}

func (pb priceBetweenPredicate) Matches(p models.Product) bool {
	return p.Price >= pb.min && p.Price <= pb.max
}

type categoryPredicate struct {
	value  string
	negate bool
}

func (cp categoryPredicate) Matches(p models.Product) bool {
	found := false
	for _, category := range p.Category {
		if category == cp.value {
			found = true
			break
		}
	}
	if cp.negate {
		return !found
	}
	return found
}

type stockPredicate struct {
	inStock bool
}

func (sp stockPredicate) Matches(p models.Product) bool {
	if sp.inStock {
		return p.Stock > 0
	}
	return p.Stock == 0
}

// Compile validates every condition and turns the loose stored shape into a
// typed predicate per condition. The first malformed condition aborts
// compilation, so evaluation is all-or-nothing.
func Compile(conditions []models.Condition) ([]Predicate, error) {
	predicates := make([]Predicate, 0, len(conditions))

	for i, condition := range conditions {
		predicate, err := compileOne(i, condition)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
	}

	return predicates, nil
}

func compileOne(index int, condition models.Condition) (Predicate, error) {
	switch condition.Type {
	case ConditionTag:
		value := strings.ToLower(strings.TrimSpace(condition.Value))
		if value == "" {
			return nil, invalidCondition(index, "tag condition requires a value")
		}
		switch condition.Operator {
		case OpContains:
			return tagPredicate{value: value}, nil
		case OpEquals:
			return tagPredicate{value: value, exact: true}, nil
		default:
			return nil, invalidCondition(index, "operator %q is not valid for tag", condition.Operator)
		}

	case ConditionPrice:
		switch condition.Operator {
		case OpGreaterThan, OpLessThan:
			value, err := numericValue(condition)
			if err != nil {
				return nil, invalidCondition(index, "price condition requires a numeric value")
			}
			return priceComparePredicate{
				greaterThan: condition.Operator == OpGreaterThan,
				value:       value,
			}, nil
		case OpBetween:
			if condition.Min == nil || condition.Max == nil {
				return nil, invalidCondition(index, "between condition requires both min and max")
			}
			if *condition.Min > *condition.Max {
				return nil, invalidCondition(index, "between condition requires min <= max")
			}
			return priceBetweenPredicate{min: *condition.Min, max: *condition.Max}, nil
		default:
			return nil, invalidCondition(index, "operator %q is not valid for price", condition.Operator)
		}

	case ConditionCategory:
		value := strings.TrimSpace(condition.Value)
		if value == "" {
			return nil, invalidCondition(index, "category condition requires a value")
		}
		switch condition.Operator {
		case OpEquals:
			return categoryPredicate{value: value}, nil
		case OpNotEquals:
			return categoryPredicate{value: value, negate: true}, nil
		default:
			return nil, invalidCondition(index, "operator %q is not valid for category", condition.Operator)
		}

	case ConditionStock:
		switch condition.Operator {
		case OpInStock:
			return stockPredicate{inStock: true}, nil
		case OpOutOfStock:
			return stockPredicate{}, nil
		default:
			return nil, invalidCondition(index, "operator %q is not valid for stock", condition.Operator)
		}

	default:
		return nil, invalidCondition(index, "unknown condition type %q", condition.Type)
	}
}

// numericValue accepts either the typed number field or a numeric string, the
// loose shape the admin form submits.
func numericValue(condition models.Condition) (float64, error) {
	if condition.Number != nil {
		return *condition.Number, nil
	}
	value := strings.TrimSpace(condition.Value)
	if value == "" {
		return 0, fmt.Errorf("value required")
	}
	return strconv.ParseFloat(value, 64)
}

// ValidateConditions checks the rule list without evaluating anything; used at
// collection create and update time.
func ValidateConditions(conditions []models.Condition) error {
	_, err := Compile(conditions)
	return err
}
