package password_test

import (
	"strings"
	"testing"

	"github.com/ErlanBelekov/trade-tally/internal/password"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_RoundTrip(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("testing0101")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := h.Compare(hash, "testing0101")
	if err != nil || !ok {
		t.Fatalf("Compare(correct) = %v, %v; want true, nil", ok, err)
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	a, err := h.Hash("testing0101")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("testing0101")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same input are equal")
	}
}

func TestCompare_WrongPasswordIsNotAnError(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	hash, _ := h.Hash("testing0101")

	ok, err := h.Compare(hash, "wrongPassword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Compare(wrong) = true")
	}
}

func TestCompare_MalformedHash(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	if _, err := h.Compare("not-a-bcrypt-hash", "testing0101"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestHash_TooLong(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error for input over 72 bytes")
	}
}

func TestNewHasher_DefaultCost(t *testing.T) {
	h := password.NewHasher(0)
	hash, err := h.Hash("testing0101")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != password.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, password.DefaultCost)
	}
}
