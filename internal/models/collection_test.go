package models

import (
	"encoding/json"
	"testing"
)

func TestConditionUnmarshalStringValue(t *testing.T) {
	var condition Condition
	if err := json.Unmarshal([]byte(`{"type":"tag","operator":"contains","value":"sale"}`), &condition); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if condition.Value != "sale" {
		t.Fatalf("expected value %q, got %q", "sale", condition.Value)
	}
}

func TestConditionUnmarshalNumericValue(t *testing.T) {
	var condition Condition
	if err := json.Unmarshal([]byte(`{"type":"price","operator":"less_than","value":50}`), &condition); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if condition.Number == nil || *condition.Number != 50 {
		t.Fatalf("expected numeric value 50, got %v", condition.Number)
	}
}

func TestConditionUnmarshalBetweenBounds(t *testing.T) {
	var condition Condition
	if err := json.Unmarshal([]byte(`{"type":"price","operator":"between","min":20,"max":40}`), &condition); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if condition.Min == nil || *condition.Min != 20 || condition.Max == nil || *condition.Max != 40 {
		t.Fatalf("expected bounds 20/40, got %v/%v", condition.Min, condition.Max)
	}
}

func TestConditionUnmarshalRejectsObjectValue(t *testing.T) {
	var condition Condition
	if err := json.Unmarshal([]byte(`{"type":"tag","operator":"equals","value":{"bad":true}}`), &condition); err == nil {
		t.Fatal("expected error for object-valued condition")
	}
}
