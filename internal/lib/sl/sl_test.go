package sl

import (
	"errors"
	"log/slog"
	"testing"
)

func TestErr(t *testing.T) {
	err := errors.New("something broke")
	attr := Err(err)

	if attr.Key != "error" {
		t.Errorf("Err() key = %q, want %q", attr.Key, "error")
	}
	if attr.Value.Kind() != slog.KindString {
		t.Errorf("Err() value kind = %v, want string", attr.Value.Kind())
	}
	if attr.Value.String() != "something broke" {
		t.Errorf("Err() value = %q, want %q", attr.Value.String(), "something broke")
	}
}
