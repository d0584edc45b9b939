package discovery

import (
	"encoding/xml"
)

// The discovery handshake exchanges small, fixed-shape XML envelopes over
// BcUDP Discovery datagrams (spec.md Section 4.4, "BcUDP discovery XMLs").

type c2dSTo struct {
	Port int `xml:"port"`
}

type c2dSEnvelope struct {
	XMLName xml.Name `xml:"P2P"`
	C2DS    struct {
		To c2dSTo `xml:"to"`
	} `xml:"C2D_S"`
}

// BuildC2DS builds the local-broadcast search datagram: "is anyone home,
// reply to this port" (spec.md Section 4.3 step 1).
func BuildC2DS(clientPort int) ([]byte, error) {
	var env c2dSEnvelope
	env.C2DS.To.Port = clientPort
	return xml.Marshal(env)
}

type c2dCCli struct {
	Port int `xml:"port"`
}

type c2dCEnvelope struct {
	XMLName xml.Name `xml:"P2P"`
	C2DC    struct {
		UID   string  `xml:"uid"`
		Cli   c2dCCli `xml:"cli"`
		CID   int     `xml:"cid"`
		MTU   int     `xml:"mtu"`
		Debug int     `xml:"debug"`
		P     string  `xml:"p"`
	} `xml:"C2D_C"`
}

// BuildC2DC builds the targeted-UID search datagram (spec.md Section 4.3
// step 1, "Alternatively, if UID known").
func BuildC2DC(uid string, clientPort, cid, mtu int, mac string) ([]byte, error) {
	var env c2dCEnvelope
	env.C2DC.UID = uid
	env.C2DC.Cli.Port = clientPort
	env.C2DC.CID = cid
	env.C2DC.MTU = mtu
	env.C2DC.Debug = 0
	env.C2DC.P = mac
	return xml.Marshal(env)
}

// D2CCR is the camera's reply to C2D_C, carrying the def/hb/hbt heartbeat
// timer block (spec.md Section 4.3 step 2).
type D2CCR struct {
	XMLName xml.Name `xml:"P2P"`
	Body    struct {
		Rsp   int `xml:"rsp"`
		CID   int `xml:"cid"`
		DID   int `xml:"did"`
		Timer struct {
			Def int `xml:"def"`
			HB  int `xml:"hb"`
			HBT int `xml:"hbt"`
		} `xml:"timer"`
	} `xml:"D2C_C_R"`
}

// ParseD2CCR parses a D2C_C_R datagram.
func ParseD2CCR(data []byte) (D2CCR, error) {
	var d D2CCR
	if err := xml.Unmarshal(data, &d); err != nil {
		return d, ErrMalformedResponse
	}
	return d, nil
}

type c2dTEnvelope struct {
	XMLName xml.Name `xml:"P2P"`
	C2DT    struct {
		SID  int    `xml:"sid"`
		Conn string `xml:"conn"`
		CID  int    `xml:"cid"`
		MTU  int    `xml:"mtu"`
	} `xml:"C2D_T"`
}

// BuildC2DT builds the transport-confirm datagram (spec.md Section 4.3 step 3).
func BuildC2DT(sid int, conn string, cid, mtu int) ([]byte, error) {
	var env c2dTEnvelope
	env.C2DT.SID = sid
	env.C2DT.Conn = conn
	env.C2DT.CID = cid
	env.C2DT.MTU = mtu
	return xml.Marshal(env)
}

// ParseC2DT parses a C2D_T datagram, the camera side's view of step 3.
func ParseC2DT(data []byte) (c2dTEnvelope, error) {
	var env c2dTEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return env, ErrMalformedResponse
	}
	return env, nil
}

type d2dTEnvelope struct {
	XMLName xml.Name `xml:"P2P"`
	D2CT    struct {
		SID  int    `xml:"sid"`
		Conn string `xml:"conn"`
		CID  int    `xml:"cid"`
		DID  int    `xml:"did"`
	} `xml:"D2C_T"`
}

// BuildD2CT builds the camera's transport-confirm reply (spec.md Section
// 4.3 step 4).
func BuildD2CT(sid int, conn string, cid, did int) ([]byte, error) {
	var env d2dTEnvelope
	env.D2CT.SID = sid
	env.D2CT.Conn = conn
	env.D2CT.CID = cid
	env.D2CT.DID = did
	return xml.Marshal(env)
}

// D2CT is the camera's transport-confirm reply (spec.md Section 4.3 step 4).
type D2CT struct {
	XMLName xml.Name `xml:"P2P"`
	Body    struct {
		SID  int    `xml:"sid"`
		Conn string `xml:"conn"`
		CID  int    `xml:"cid"`
		DID  int    `xml:"did"`
	} `xml:"D2C_T"`
}

// ParseD2CT parses a D2C_T datagram.
func ParseD2CT(data []byte) (D2CT, error) {
	var d D2CT
	if err := xml.Unmarshal(data, &d); err != nil {
		return d, ErrMalformedResponse
	}
	// Any P2P envelope unmarshals without error; require the D2C_T element.
	var probe struct {
		XMLName xml.Name  `xml:"P2P"`
		D2CT    *struct{} `xml:"D2C_T"`
	}
	if err := xml.Unmarshal(data, &probe); err != nil || probe.D2CT == nil {
		return d, ErrMalformedResponse
	}
	return d, nil
}

// D2CCFM is the optional pre-authentication confirmation some cameras send
// (spec.md Section 4.3 step 5).
type D2CCFM struct {
	XMLName xml.Name `xml:"P2P"`
	Body    struct {
		SID   int    `xml:"sid"`
		Conn  string `xml:"conn"`
		Rsp   int    `xml:"rsp"`
		CID   int    `xml:"cid"`
		DID   int    `xml:"did"`
		TimeR int    `xml:"time_r"`
	} `xml:"D2C_CFM"`
}

type disconnectBody struct {
	CID int `xml:"cid"`
	DID int `xml:"did"`
}

type c2dDiscEnvelope struct {
	XMLName xml.Name       `xml:"P2P"`
	C2DDisc disconnectBody `xml:"C2D_DISC"`
}

// BuildC2DDisc builds the teardown datagram sent after BC logout
// (spec.md Section 4.3, "Teardown").
func BuildC2DDisc(cid, did int) ([]byte, error) {
	return xml.Marshal(c2dDiscEnvelope{C2DDisc: disconnectBody{CID: cid, DID: did}})
}
