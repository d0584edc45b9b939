package bcproto

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// legacyFieldSize is the width of each hashed credential field in the
// fixed-layout legacy login body (spec.md Section 4.6).
const legacyFieldSize = 32

// HashMD5Hex returns the lowercase-hex MD5 digest of s.
func HashMD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashMD5HexUpper returns the uppercase-hex MD5 digest of s, the form
// used for the modern LoginUser nonce-salted hashes (spec.md Section 4.6).
func HashMD5HexUpper(s string) string {
	return strings.ToUpper(HashMD5Hex(s))
}

// EncodeLegacyLoginBody builds the fixed-layout legacy login body: 32
// bytes of ASCII-hex MD5(username), a nul terminator, then 32 bytes of
// ASCII-hex MD5(password), zero-padded (spec.md Section 4.6). Only the
// first 31 bytes of each field are compared server-side, so the encoder
// need not special-case usernames/passwords that hash to fewer bytes.
func EncodeLegacyLoginBody(username, password string) []byte {
	buf := make([]byte, legacyFieldSize+1+legacyFieldSize)
	copy(buf[0:legacyFieldSize], HashMD5Hex(username))
	// buf[legacyFieldSize] stays 0x00: the nul terminator separating the
	// two hash fields.
	copy(buf[legacyFieldSize+1:], HashMD5Hex(password))
	return buf
}

// ModernLoginHashes computes the nonce-salted username/password hashes
// used in the modern LoginUser payload: uppercase-hex MD5(value+nonce)
// (spec.md Section 4.6, Section 8 scenario 1).
func ModernLoginHashes(username, password, nonce string) (userHash, passHash string) {
	return HashMD5HexUpper(username + nonce), HashMD5HexUpper(password + nonce)
}
