// AES-CFB128 wrapping for BC's negotiated payload encryption.
// The same stdlib crypto/aes + crypto/cipher pairing the teacher composes
// its own AES-CTR mode from (pkg/crypto/aesctr.go) is used here, with
// CFB128 instead of CTR because spec.md Section 4.1 mandates it.

package bcproto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// AESKeySize is the AES-128 key size in bytes.
const AESKeySize = 16

// DeriveAESKey computes the 16-byte AES key from the session nonce and
// password: the first 16 ASCII bytes of uppercase-hex MD5(nonce-password)
// (spec.md Section 4.1).
func DeriveAESKey(nonce, password string) []byte {
	sum := md5.Sum([]byte(nonce + "-" + password))
	hexDigest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return []byte(hexDigest[:AESKeySize])
}

// AESCFBEncrypt encrypts buf using AES-CFB128 with the fixed IV and the
// given key, returning the ciphertext in a new buffer. CFB mode's
// encrypt/decrypt streams are distinct (unlike CTR/XOR), so the caller
// must pick AESCFBEncrypt or AESCFBDecrypt accordingly.
func AESCFBEncrypt(key []byte, buf []byte) ([]byte, error) {
	block, err := newAESBlock(key)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(buf))
	cipher.NewCFBEncrypter(block, AESIV).XORKeyStream(dst, buf)
	return dst, nil
}

// AESCFBDecrypt is the inverse of AESCFBEncrypt.
func AESCFBDecrypt(key []byte, buf []byte) ([]byte, error) {
	block, err := newAESBlock(key)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(buf))
	cipher.NewCFBDecrypter(block, AESIV).XORKeyStream(dst, buf)
	return dst, nil
}

func newAESBlock(key []byte) (cipher.Block, error) {
	if len(key) != AESKeySize {
		return nil, ErrInvalidAESKey
	}
	return aes.NewCipher(key)
}
