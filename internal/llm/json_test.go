package llm

import "testing"

type decodeTarget struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

func TestDecodeInto_PlainObject(t *testing.T) {
	var target decodeTarget
	err := DecodeInto(`{"score": 72, "summary": "well supported"}`, &target)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if target.Score != 72 || target.Summary != "well supported" {
		t.Errorf("Unexpected decode result: %+v", target)
	}
}

func TestDecodeInto_ObjectWrappedInProse(t *testing.T) {
	output := "Sure! Here is the analysis you asked for:\n```json\n" +
		`{"score": 45, "summary": "mixed evidence"}` +
		"\n```\nLet me know if you need anything else."

	var target decodeTarget
	if err := DecodeInto(output, &target); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if target.Score != 45 {
		t.Errorf("Expected score 45, got %d", target.Score)
	}
}

func TestDecodeInto_BracesInsideStrings(t *testing.T) {
	var target decodeTarget
	err := DecodeInto(`{"score": 10, "summary": "odd chars } { here"}`, &target)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if target.Summary != "odd chars } { here" {
		t.Errorf("Unexpected summary: %q", target.Summary)
	}
}

func TestDecodeInto_NestedObject(t *testing.T) {
	output := `prefix {"score": 5, "summary": "ok", "extra": {"nested": true}} suffix`

	var target decodeTarget
	if err := DecodeInto(output, &target); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if target.Score != 5 {
		t.Errorf("Expected score 5, got %d", target.Score)
	}
}

func TestDecodeInto_NoObject(t *testing.T) {
	var target decodeTarget
	if err := DecodeInto("no json here at all", &target); err == nil {
		t.Error("Expected error for output without a JSON object")
	}
}

func TestDecodeInto_UnbalancedObject(t *testing.T) {
	var target decodeTarget
	if err := DecodeInto(`{"score": 5, "summary": "truncated`, &target); err == nil {
		t.Error("Expected error for unbalanced JSON object")
	}
}
