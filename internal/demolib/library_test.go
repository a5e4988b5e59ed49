package demolib

import "testing"

func TestBuildAddDispatchesAcrossSignatures(t *testing.T) {
	lib := Build()
	add := lib["add"]

	if got, err := add.Call(1.0, 2.0); err != nil || got != 3.0 {
		t.Errorf("Call(1,2) = %v, %v; want 3, nil", got, err)
	}
	if got, err := add.Call("a", "b"); err != nil || got != "ab" {
		t.Errorf("Call(a,b) = %v, %v; want ab, nil", got, err)
	}
	if got, err := add.Call(1.0, 2.0, 3.0, 4.0); err != nil || got != 10.0 {
		t.Errorf("Call(1,2,3,4) = %v, %v; want 10, nil", got, err)
	}
}

func TestBuildDescribeCoversEveryBuiltinType(t *testing.T) {
	lib := Build()
	describe := lib["describe"]

	cases := []struct {
		arg  any
		want string
	}{
		{42.0, "a number: 42"},
		{"hi", "a 2-byte string"},
		{true, "boolean true"},
	}
	for _, c := range cases {
		got, err := describe.Call(c.arg)
		if err != nil {
			t.Fatalf("Call(%v): %v", c.arg, err)
		}
		if got != c.want {
			t.Errorf("Call(%v) = %q, want %q", c.arg, got, c.want)
		}
	}
}
