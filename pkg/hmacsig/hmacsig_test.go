package hmacsig

import "testing"

func TestSignVerify(t *testing.T) {
	t.Parallel()

	body := []byte(`{"token":"abc","amount":"10.00"}`)
	sig := Sign("casino-secret-key", "1700000000000", body)

	if !Verify("casino-secret-key", "1700000000000", body, sig) {
		t.Fatal("signature should verify")
	}
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	body := []byte(`{"token":"abc"}`)
	sig := Sign("casino-secret-key", "1700000000000", body)

	if Verify("wrong-secret", "1700000000000", body, sig) {
		t.Fatal("wrong secret must not verify")
	}
	if Verify("casino-secret-key", "1700000000001", body, sig) {
		t.Fatal("different timestamp must not verify")
	}
	if Verify("casino-secret-key", "1700000000000", []byte(`{"token":"xyz"}`), sig) {
		t.Fatal("tampered body must not verify")
	}
	if Verify("casino-secret-key", "1700000000000", body, "deadbeef") {
		t.Fatal("garbage signature must not verify")
	}
}

func TestSign_Deterministic(t *testing.T) {
	t.Parallel()

	a := Sign("s", "1", []byte("x"))
	b := Sign("s", "1", []byte("x"))

	if a != b {
		t.Fatalf("signatures differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
