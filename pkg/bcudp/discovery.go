package bcudp

import "github.com/bcbridge/bc/pkg/bcproto"

// EncryptDiscovery and DecryptDiscovery apply the 32-bit-word discovery
// keystream (spec.md Section 9): unlike the control-body XOR in
// pkg/bcproto, this operates word-at-a-time over udpKeyTable and is salted
// by the transmission id rather than a byte offset. The two schemes are
// deliberately not unified.
func EncryptDiscovery(payload []byte, transmissionID uint32) []byte {
	return discoveryXOR(payload, transmissionID)
}

// DecryptDiscovery reverses EncryptDiscovery; the keystream is self-inverse.
func DecryptDiscovery(payload []byte, transmissionID uint32) []byte {
	return discoveryXOR(payload, transmissionID)
}

func discoveryXOR(payload []byte, transmissionID uint32) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		// Byte i belongs to 4-byte word i/4, which is XORed with the
		// salted table word; the word's bytes are taken little-endian.
		word := udpKeyTable[(i/4)%len(udpKeyTable)] + transmissionID
		keyByte := byte(word >> (8 * (uint(i) % 4)))
		out[i] = b ^ keyByte
	}
	return out
}

// BuildDiscoveryPayload encrypts xml and wraps it with a header whose CRC
// covers the encrypted bytes (spec.md Section 4.3, "Discovery").
func BuildDiscoveryPayload(xml []byte, transmissionID uint32) []byte {
	enc := EncryptDiscovery(xml, transmissionID)
	h := DiscoveryHeader{
		PayloadSize:    uint32(len(enc)),
		TransmissionID: transmissionID,
		CRC:            bcproto.DiscoveryCRC32(enc),
	}
	out := EncodeDiscoveryHeader(h)
	return append(out, enc...)
}

// ParseDiscoveryPayload validates the CRC and decrypts a Discovery
// datagram's payload, returning the plaintext XML.
func ParseDiscoveryPayload(data []byte) ([]byte, error) {
	h, err := DecodeDiscoveryHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[discoveryHeaderLen:]
	if uint32(len(body)) < h.PayloadSize {
		return nil, ErrHeaderTooShort
	}
	enc := body[:h.PayloadSize]
	if bcproto.DiscoveryCRC32(enc) != h.CRC {
		return nil, ErrBadMagic
	}
	return DecryptDiscovery(enc, h.TransmissionID), nil
}
