package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFieldsSkipsEmptyPairs(t *testing.T) {
	fields := StringFields(
		StringField{Key: "provider", Value: "gemini"},
		StringField{Key: "  ", Value: "ignored"},
		StringField{Key: "model", Value: "   "},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "provider" {
		t.Fatalf("unexpected field key: %q", fields[0].Key)
	}
}

func TestCommonFields(t *testing.T) {
	fields := CommonFields("gemini", "gemini-2.5-flash")
	if len(fields) != 2 {
		t.Fatalf("expected provider and model fields, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[1].Key != FieldModel {
		t.Fatalf("unexpected keys: %q, %q", fields[0].Key, fields[1].Key)
	}

	if got := CommonFields("", ""); len(got) != 0 {
		t.Fatalf("expected no fields for empty values, got %d", len(got))
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	if got := WithFields(nil); got == nil {
		t.Fatal("expected a usable logger for nil input")
	}
	if got := WithFields(zap.NewNop(), zap.String("k", "v")); got == nil {
		t.Fatal("expected a logger with fields attached")
	}
}
