package bcproto

// XORCrypt applies the legacy BC control-body keystream to src, writes the
// result into dst (which may be src itself), and also returns dst for
// convenience. It is its own inverse: calling it twice
// with the same offset restores the original bytes (spec.md Section 4.1).
//
//	c[i] = p[i] ^ K[(i+offset) % 8] ^ (offset & 0xFF)
func XORCrypt(dst, src []byte, offset uint32) []byte {
	mask := byte(offset & 0xFF)
	for i := range src {
		dst[i] = src[i] ^ XORKey[(uint32(i)+offset)%8] ^ mask
	}
	return dst
}

// XOR encrypts or decrypts src into a freshly allocated buffer.
func XOR(src []byte, offset uint32) []byte {
	dst := make([]byte, len(src))
	return XORCrypt(dst, src, offset)
}
