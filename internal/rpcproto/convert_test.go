package rpcproto

import (
	"reflect"
	"testing"
)

func TestLoadFindsAllMessages(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Service.GetName() != "TypedFn" {
		t.Errorf("service name = %q, want TypedFn", d.Service.GetName())
	}
	if len(d.Service.GetMethods()) != 3 {
		t.Errorf("got %d methods, want 3", len(d.Service.GetMethods()))
	}
}

func TestValueRoundTrip(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []any{
		nil,
		3.5,
		"hello",
		true,
		false,
		[]any{1.0, "x", nil},
	}

	for _, in := range tests {
		msg, err := d.NewValue(in)
		if err != nil {
			t.Fatalf("NewValue(%v): %v", in, err)
		}
		out, err := ValueToAny(msg)
		if err != nil {
			t.Fatalf("ValueToAny(%v): %v", in, err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("round trip %v -> %v, want %v", in, out, in)
		}
	}
}
