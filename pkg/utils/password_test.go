package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !ComparePassword(hash, "s3cret-pass") {
		t.Error("ComparePassword() rejected the right password")
	}
	if ComparePassword(hash, "wrong") {
		t.Error("ComparePassword() accepted the wrong password")
	}
}
