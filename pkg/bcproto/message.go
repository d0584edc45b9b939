package bcproto

// EncryptionMode selects how a message body is (de)crypted once
// negotiated at login (spec.md Section 3, EncryptionState).
type EncryptionMode uint8

const (
	ModePlain EncryptionMode = iota
	ModeXOR
	ModeAES
)

// EncryptionState is the per-session cryptography negotiated during
// login; it applies to every subsequent body after the handshake
// (spec.md Section 3).
type EncryptionState struct {
	Mode   EncryptionMode
	AESKey []byte // 16 bytes, only set when Mode == ModeAES
}

// NewPlainState returns a state that applies no body cryptography.
func NewPlainState() EncryptionState {
	return EncryptionState{Mode: ModePlain}
}

// NewXORState returns a state using the fixed legacy XOR keystream.
func NewXORState() EncryptionState {
	return EncryptionState{Mode: ModeXOR}
}

// NewAESState returns a state using AES-CFB128 with a nonce-derived key.
func NewAESState(nonce, password string) EncryptionState {
	return EncryptionState{Mode: ModeAES, AESKey: DeriveAESKey(nonce, password)}
}

// Encrypt encrypts the concatenation of extension and payload bytes
// according to the negotiated mode. offset is the header-b12-derived
// XOR offset; it is ignored for AES and plaintext modes.
func (e EncryptionState) Encrypt(body []byte, offset uint32) ([]byte, error) {
	switch e.Mode {
	case ModePlain:
		return body, nil
	case ModeXOR:
		return XOR(body, offset), nil
	case ModeAES:
		return AESCFBEncrypt(e.AESKey, body)
	default:
		return body, nil
	}
}

// Decrypt is the inverse of Encrypt.
func (e EncryptionState) Decrypt(body []byte, offset uint32) ([]byte, error) {
	switch e.Mode {
	case ModePlain:
		return body, nil
	case ModeXOR:
		return XOR(body, offset), nil // XOR is its own inverse
	case ModeAES:
		return AESCFBDecrypt(e.AESKey, body)
	default:
		return body, nil
	}
}

// Direction distinguishes requests, responses, and unsolicited events
// (spec.md Section 3, BcMessage).
type Direction uint8

const (
	DirectionRequest Direction = iota
	DirectionResponse
	DirectionEvent
)

// Message is a decoded, decrypted BC message ready for the router
// (spec.md Section 3, BcMessage).
type Message struct {
	Direction     Direction
	MessageID     uint32
	Handle        uint8
	Class         MessageClass
	Status        uint16
	ExtensionXML  []byte // optional, present when PayloadOffset > 0
	Payload       []byte // xml, binary, or absent
}

// SplitBody divides a decrypted body into extension and payload halves at
// the header's payload offset (spec.md Section 4.2). An offset of 0 means
// no extension is present and the whole body is payload.
func SplitBody(body []byte, payloadOffset uint32) (extension, payload []byte) {
	if payloadOffset == 0 || int(payloadOffset) > len(body) {
		return nil, body
	}
	return body[:payloadOffset], body[payloadOffset:]
}

// JoinBody is the inverse of SplitBody, used when encoding an outbound
// message: it concatenates extension and payload and reports the offset
// to record in the header.
func JoinBody(extension, payload []byte) (body []byte, payloadOffset uint32) {
	if len(extension) == 0 {
		return payload, 0
	}
	body = make([]byte, 0, len(extension)+len(payload))
	body = append(body, extension...)
	body = append(body, payload...)
	return body, uint32(len(extension))
}
