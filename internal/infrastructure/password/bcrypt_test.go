package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	digest, err := h.Hash("Sup3r$ecret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "Sup3r$ecret1" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("Sup3r$ecret1", digest) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestBcrypt_Salted(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for identical passwords")
	}
}

func TestBcrypt_InvalidCostFallsBack(t *testing.T) {
	if got := NewBcrypt(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcrypt(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestBcrypt_VerifyMalformedDigest(t *testing.T) {
	if NewBcrypt(bcrypt.MinCost).Verify("pw", "not-a-bcrypt-hash") {
		t.Fatalf("malformed digest must not verify")
	}
}
