package bcproto

import (
	"strings"
	"testing"
)

func TestModernLoginHashesMatchScenario(t *testing.T) {
	// spec.md Section 8 scenario 1: user="admin", password="pass",
	// nonce="13BCECE33DA453DB".
	userHash, passHash := ModernLoginHashes("admin", "pass", "13BCECE33DA453DB")

	wantUser := HashMD5HexUpper("admin" + "13BCECE33DA453DB")
	wantPass := HashMD5HexUpper("pass" + "13BCECE33DA453DB")

	if userHash != wantUser {
		t.Fatalf("userHash = %s, want %s", userHash, wantUser)
	}
	if passHash != wantPass {
		t.Fatalf("passHash = %s, want %s", passHash, wantPass)
	}
	if userHash != strings.ToUpper(userHash) {
		t.Fatalf("userHash not uppercase: %s", userHash)
	}
}

func TestEncodeLegacyLoginBodyLayout(t *testing.T) {
	body := EncodeLegacyLoginBody("admin", "pass")
	wantLen := legacyFieldSize + 1 + legacyFieldSize
	if len(body) != wantLen {
		t.Fatalf("expected %d bytes, got %d", wantLen, len(body))
	}
	userField := string(body[:legacyFieldSize])
	separator := body[legacyFieldSize]
	passField := string(body[legacyFieldSize+1:])
	if userField != HashMD5Hex("admin") {
		t.Fatalf("user field = %q, want %q", userField, HashMD5Hex("admin"))
	}
	if separator != 0x00 {
		t.Fatalf("separator byte = %#x, want 0x00", separator)
	}
	if passField != HashMD5Hex("pass") {
		t.Fatalf("pass field = %q, want %q", passField, HashMD5Hex("pass"))
	}
}
