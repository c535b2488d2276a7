package cryptkeeper

import "testing"

func TestSHA256Hex_Deterministic(t *testing.T) {
	if SHA256Hex("hello") != SHA256Hex("hello") {
		t.Error("SHA256Hex should be deterministic")
	}
	if len(SHA256Hex("hello")) != 64 {
		t.Errorf("SHA256Hex length = %d, want 64", len(SHA256Hex("hello")))
	}
}

func TestSHA256Hex_KnownValue(t *testing.T) {
	// Digest of the empty string: generated Encrypt assigns this when an
	// encrypted field holds "".
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SHA256Hex(""); got != want {
		t.Errorf("SHA256Hex(\"\") = %q, want %q", got, want)
	}
}

func TestSHA512Hex(t *testing.T) {
	if len(SHA512Hex("hello")) != 128 {
		t.Errorf("SHA512Hex length = %d, want 128", len(SHA512Hex("hello")))
	}
	if SHA512Hex("a") == SHA512Hex("b") {
		t.Error("different inputs should produce different digests")
	}
}

func TestBLAKE2b256Hex(t *testing.T) {
	if len(BLAKE2b256Hex("hello")) != 64 {
		t.Errorf("BLAKE2b256Hex length = %d, want 64", len(BLAKE2b256Hex("hello")))
	}
	if BLAKE2b256Hex("hello") == SHA256Hex("hello") {
		t.Error("BLAKE2b and SHA-256 should differ on the same input")
	}
}
