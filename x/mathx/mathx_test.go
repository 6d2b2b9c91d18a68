package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 {
		t.Fatal("clamp low failed")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Fatal("clamp high failed")
	}
	if Clamp(7, 10, 0) != 7 {
		t.Fatal("clamp with swapped bounds failed")
	}
	if Clamp[uint16](900, 0, 800) != 800 {
		t.Fatal("clamp uint16 failed")
	}
}

func TestMin(t *testing.T) {
	if Min[uint32](800, 32764) != 800 || Min[uint32](1<<20, 32764) != 32764 {
		t.Fatal("min failed")
	}
}
