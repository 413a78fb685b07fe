package state

import "testing"

func TestSnapshot_SetAndGet(t *testing.T) {
	s := New()
	s.SetBool("HideFileExt", true)
	s.SetString("GitUserName", "Ada Lovelace")

	if !s.Bool("HideFileExt") {
		t.Error("Bool should return recorded value")
	}
	if s.String("GitUserName") != "Ada Lovelace" {
		t.Errorf("String = %q", s.String("GitUserName"))
	}
}

func TestSnapshot_Defaults(t *testing.T) {
	s := New()

	if s.Bool("missing") {
		t.Error("missing bool probe should default to false")
	}
	if s.String("missing") != "" {
		t.Error("missing string probe should default to empty")
	}
	if s.Has("missing") {
		t.Error("Has should be false for unrecorded probe")
	}

	// Type mismatch also defaults
	s.SetString("val", "yes")
	if s.Bool("val") {
		t.Error("Bool on a string probe should default to false")
	}
}

func TestSnapshot_KeysInsertionOrder(t *testing.T) {
	s := New()
	s.SetBool("b", true)
	s.SetString("a", "x")
	s.SetBool("c", false)
	s.SetBool("b", false) // overwrite keeps position

	keys := s.Keys()
	want := []string{"b", "a", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if s.Bool("b") {
		t.Error("overwrite should take effect")
	}
}

func TestSnapshot_Equal(t *testing.T) {
	a := New()
	a.SetBool("x", true)
	a.SetString("y", "v")

	b := New()
	b.SetString("y", "v")
	b.SetBool("x", true)

	if !a.Equal(b) {
		t.Error("order should not matter for Equal")
	}

	b.SetBool("z", false)
	if a.Equal(b) {
		t.Error("extra probe should break equality")
	}
}

func TestSnapshot_Render(t *testing.T) {
	s := New()
	s.SetBool("flag", true)
	s.SetString("name", "dev")

	if s.Render("flag") != "true" {
		t.Errorf("Render(flag) = %q", s.Render("flag"))
	}
	if s.Render("name") != "dev" {
		t.Errorf("Render(name) = %q", s.Render("name"))
	}
	if s.Render("missing") != "" {
		t.Errorf("Render(missing) = %q", s.Render("missing"))
	}
}
