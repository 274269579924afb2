package ai

import (
	"errors"
	"testing"

	apperrors "expenza/internal/errors"
)

func TestParseResponse(t *testing.T) {
	t.Run("single_expense", func(t *testing.T) {
		raw := `{"expenses": [{"amount": "45.00", "description": "Gas", "category_name": "Transport", "group_name": null, "is_new_category": false, "suggested_icon": null}]}`

		items, err := ParseResponse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Amount != "45" {
			t.Errorf("expected amount 45, got %s", items[0].Amount)
		}
		if items[0].Description != "Gas" {
			t.Errorf("expected description Gas, got %s", items[0].Description)
		}
		if items[0].CategoryName != "Transport" {
			t.Errorf("expected category Transport, got %s", items[0].CategoryName)
		}
		if items[0].GroupName != "" {
			t.Errorf("null group_name should coerce to empty, got %q", items[0].GroupName)
		}
	})

	t.Run("multiple_expenses", func(t *testing.T) {
		raw := `{"expenses": [
			{"amount": "45.00", "description": "Gas", "category_name": "Transport", "is_new_category": false},
			{"amount": "32.75", "description": "Lunch", "category_name": "Food", "is_new_category": false}
		]}`

		items, err := ParseResponse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[1].Amount != "32.75" {
			t.Errorf("expected amount 32.75, got %s", items[1].Amount)
		}
	})

	t.Run("code_fenced", func(t *testing.T) {
		raw := "```json\n{\"expenses\": [{\"amount\": \"10\", \"description\": \"Coffee\", \"is_new_category\": false}]}\n```"

		items, err := ParseResponse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
	})

	t.Run("bare_fence", func(t *testing.T) {
		raw := "```\n{\"expenses\": []}\n```"

		items, err := ParseResponse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty list, got %d items", len(items))
		}
	})

	t.Run("numeric_amount", func(t *testing.T) {
		raw := `{"expenses": [{"amount": 45.5, "description": "Gas", "is_new_category": false}]}`

		items, err := ParseResponse(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items[0].Amount != "45.5" {
			t.Errorf("expected amount 45.5, got %s", items[0].Amount)
		}
	})

	t.Run("empty_list_is_not_an_error", func(t *testing.T) {
		items, err := ParseResponse(`{"expenses": []}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty list, got %d items", len(items))
		}
	})

	t.Run("invalid_json", func(t *testing.T) {
		_, err := ParseResponse("I couldn't find any expenses in that message.")
		assertParseError(t, err)
	})

	t.Run("missing_expenses_key", func(t *testing.T) {
		_, err := ParseResponse(`{"items": []}`)
		assertParseError(t, err)
	})

	t.Run("negative_amount", func(t *testing.T) {
		_, err := ParseResponse(`{"expenses": [{"amount": "-5.00", "description": "Refund", "is_new_category": false}]}`)
		assertParseError(t, err)
	})

	t.Run("non_numeric_amount", func(t *testing.T) {
		_, err := ParseResponse(`{"expenses": [{"amount": "a lot", "description": "Mystery", "is_new_category": false}]}`)
		assertParseError(t, err)
	})

	t.Run("missing_amount", func(t *testing.T) {
		_, err := ParseResponse(`{"expenses": [{"description": "Mystery", "is_new_category": false}]}`)
		assertParseError(t, err)
	})

	t.Run("error_carries_raw_text", func(t *testing.T) {
		_, err := ParseResponse("garbage output")

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("expected *AppError, got %T", err)
		}
		if appErr.Internal == nil {
			t.Fatal("parse error should carry the raw response internally")
		}
	})
}

func assertParseError(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, apperrors.ErrParseFailed) {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no_fence", `{"a": 1}`, `{"a": 1}`},
		{"json_fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare_fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding_whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
