package rowcodec

import (
	"errors"
	"testing"
)

func TestValidateID(t *testing.T) {
	if err := ValidateID("plain-id"); err != nil {
		t.Fatalf("expected clean id accepted: %v", err)
	}
	err := ValidateID("a,b")
	if !errors.Is(err, ErrSeparatorInID) {
		t.Fatalf("expected separator rejection, got %v", err)
	}
}

func TestIntCells(t *testing.T) {
	if EncodeInt(-42) != "-42" {
		t.Fatalf("unexpected encoding: %q", EncodeInt(-42))
	}

	value, err := DecodeInt("42")
	if err != nil || value != 42 {
		t.Fatalf("expected 42, got %d err=%v", value, err)
	}

	for _, cell := range []string{"", "abc", "4.2", " 42"} {
		if _, err := DecodeInt(cell); err == nil {
			t.Fatalf("expected decode error for %q", cell)
		}
	}
}

func TestListCells(t *testing.T) {
	if JoinIDs(nil) != "" {
		t.Fatalf("expected empty cell for no ids")
	}
	if JoinIDs([]string{"a", "b", "c"}) != "a,b,c" {
		t.Fatalf("unexpected join: %q", JoinIDs([]string{"a", "b", "c"}))
	}

	if tokens := SplitIDs(""); tokens != nil {
		t.Fatalf("expected no tokens for empty cell, got %v", tokens)
	}
	tokens := SplitIDs("a,b,c")
	if len(tokens) != 3 || tokens[0] != "a" || tokens[2] != "c" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}
