package session

import (
	"encoding/xml"
	"net"

	"github.com/bcbridge/bc/pkg/bcframe"
	"github.com/bcbridge/bc/pkg/bcproto"
)

// NewTestPipe returns two connected in-memory connections, one for a
// client Session and one for a FakeCamera to drive the other end of the
// handshake in tests, mirroring the teacher's exchange.NewTestManagerPair
// shape but over a plain net.Pipe instead of a simulated transport
// manager -- Session talks bytes, not datagrams, so a pipe is sufficient.
func NewTestPipe() (client net.Conn, camera net.Conn) {
	return net.Pipe()
}

// FakeCamera answers the camera side of a login handshake for end-to-end
// tests without a real device.
type FakeCamera struct {
	reader *bcframe.Reader
	conn   net.Conn
}

// NewFakeCamera wraps the camera-side end of a NewTestPipe connection.
func NewFakeCamera(conn net.Conn) *FakeCamera {
	return &FakeCamera{reader: bcframe.NewReader(conn), conn: conn}
}

// ServeLogin reads the client's legacy login, replies with nonce and the
// selected encryption level, reads the modern login, and replies with
// deviceInfo as the DeviceInfo+StreamInfoList payload.
func (c *FakeCamera) ServeLogin(nonce string, selected bcproto.EncryptionLevel, deviceInfo []byte) error {
	legacyFrame, err := c.reader.ReadFrame()
	if err != nil {
		return err
	}
	_ = legacyFrame

	nonceXML, err := xml.Marshal(nonceReply{Nonce: nonce})
	if err != nil {
		return err
	}
	replyHeader := bcproto.Header{
		Magic:        bcproto.MagicClientDevice,
		MessageID:    bcproto.MsgLogin,
		BodyLength:   uint32(len(nonceXML)),
		Class:        bcproto.ClassLegacy,
		LegacyFlag:   uint8(selected),
		LegacyMarker: 0xdd,
	}
	if _, err := c.conn.Write(bcframe.Encode(replyHeader, nonceXML)); err != nil {
		return err
	}

	modernFrame, err := c.reader.ReadFrame()
	if err != nil {
		return err
	}

	var enc bcproto.EncryptionState
	switch selected {
	case bcproto.EncryptionBCXOR:
		enc = bcproto.NewXORState()
	case bcproto.EncryptionAESServer, bcproto.EncryptionAESClient:
		// Decrypting an AES-negotiated body needs the nonce+password
		// derived key; AES-mode tests decrypt modernFrame.Body
		// themselves rather than through this helper.
		enc = bcproto.NewPlainState()
	default:
		enc = bcproto.NewPlainState()
	}
	_, _ = enc.Decrypt(modernFrame.Body, modernFrame.Header.B12.EncryptionOffset())

	deviceHeader := bcproto.Header{
		Magic:         bcproto.MagicClientDevice,
		MessageID:     bcproto.MsgLogin,
		BodyLength:    uint32(len(deviceInfo)),
		Class:         bcproto.ClassModern24,
		StatusOrFlag:  bcproto.StatusOK,
	}
	_, err = c.conn.Write(bcframe.Encode(deviceHeader, deviceInfo))
	return err
}

// Close closes the camera-side connection.
func (c *FakeCamera) Close() error {
	return c.conn.Close()
}

type nonceReply struct {
	XMLName xml.Name `xml:"body"`
	Nonce   string   `xml:"nonce"`
}
