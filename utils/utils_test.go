package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatal("expected password to match its hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected wrong password to be rejected")
	}
	if CheckPasswordHash("s3cret", "not-a-hash") {
		t.Fatal("expected malformed hash to be rejected")
	}
}
