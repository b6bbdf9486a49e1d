package fingerprint

import (
	"bytes"
	"testing"
)

func TestCompute_Deterministic(t *testing.T) {
	data := []byte("\xff\xd8\xff\xe0 not really a jpeg")

	first := Compute(data)
	second := Compute(bytes.Clone(data))

	if first != second {
		t.Errorf("Compute() not deterministic: %s != %s", first, second)
	}
	if !first.Valid() {
		t.Errorf("Compute() = %q, not a valid digest", first)
	}
}

func TestCompute_KnownValue(t *testing.T) {
	// sha256("abc")
	want := Digest("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	if got := Compute([]byte("abc")); got != want {
		t.Errorf("Compute(abc) = %s, want %s", got, want)
	}
}

func TestCompute_OneByteDifference(t *testing.T) {
	a := []byte{0x89, 0x50, 0x4e, 0x47, 0x00}
	b := []byte{0x89, 0x50, 0x4e, 0x47, 0x01}

	if Compute(a) == Compute(b) {
		t.Error("payloads differing by one byte produced the same digest")
	}
}

func TestCompute_Empty(t *testing.T) {
	d := Compute(nil)
	if len(d) != DigestLen {
		t.Errorf("len(Compute(nil)) = %d, want %d", len(d), DigestLen)
	}
	if d != Compute([]byte{}) {
		t.Error("nil and empty payloads should share a digest")
	}
}

func TestDigest_Valid(t *testing.T) {
	tests := []struct {
		name string
		d    Digest
		want bool
	}{
		{"computed", Compute([]byte("x")), true},
		{"empty", "", false},
		{"short", "abcd", false},
		{"not hex", Digest(bytes.Repeat([]byte("z"), DigestLen)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
