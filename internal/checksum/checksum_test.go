package checksum

import "testing"

func TestSum_Known(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestETag_QuotedAndStable(t *testing.T) {
	a := ETag([]byte("doc"))
	if a[0] != '"' || a[len(a)-1] != '"' || len(a) != 34 {
		t.Errorf("ETag = %q", a)
	}
	if a != ETag([]byte("doc")) {
		t.Error("ETag not stable")
	}
	if a == ETag([]byte("other")) {
		t.Error("different content produced same ETag")
	}
}
