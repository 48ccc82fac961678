package domain

import (
	"reflect"
	"testing"
)

func TestRecordPresentUsesCanonicalOrder(t *testing.T) {
	t.Parallel()

	rec := NewRawRecord(map[Field]string{
		FieldProfileURL: "https://example.com",
		FieldAge:        "17",
		FieldName:       "天海春香",
	})

	expected := []Field{FieldName, FieldAge, FieldProfileURL}
	if got := rec.Present(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Present() = %v, expected %v", got, expected)
	}
}

func TestRecordCopiesInput(t *testing.T) {
	t.Parallel()

	values := map[Field]string{FieldName: "如月千早"}
	rec := NewRawRecord(values)
	values[FieldName] = "changed"

	if got := rec.Value(FieldName); got != "如月千早" {
		t.Fatalf("record aliased its input: %s", got)
	}

	exported := rec.Map()
	exported[FieldName] = "changed again"
	if got := rec.Value(FieldName); got != "如月千早" {
		t.Fatalf("record aliased its export: %s", got)
	}
}

func TestRecordAbsentIsNotEmpty(t *testing.T) {
	t.Parallel()

	rec := NewRawRecord(map[Field]string{FieldHobbies: ""})
	if !rec.Has(FieldHobbies) {
		t.Fatalf("expected empty value to be present")
	}
	if _, ok := rec.Get(FieldFavorites); ok {
		t.Fatalf("expected missing field to be absent")
	}
}

func TestIsKnownField(t *testing.T) {
	t.Parallel()

	if len(Fields) != 19 {
		t.Fatalf("expected 19 fields, got %d", len(Fields))
	}
	if !IsKnownField("名前ルビ") {
		t.Fatalf("expected 名前ルビ to be known")
	}
	if IsKnownField("本名") {
		t.Fatalf("expected 本名 to be unknown")
	}
}
