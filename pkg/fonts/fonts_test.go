package fonts

import "testing"

func TestRegular(t *testing.T) {
	a, err := Regular(12)
	if err != nil {
		t.Fatalf("Regular: %v", err)
	}
	b, err := Regular(12)
	if err != nil {
		t.Fatalf("Regular: %v", err)
	}
	if a != b {
		t.Error("faces of the same size should be cached")
	}
	if m := a.Metrics(); m.Height <= 0 {
		t.Errorf("metrics height = %v, want > 0", m.Height)
	}
}

func TestRegularDefaultSize(t *testing.T) {
	a, err := Regular(0)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Regular(DefaultSize)
	if a != b {
		t.Error("size 0 should resolve to DefaultSize")
	}
}
