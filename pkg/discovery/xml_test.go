package discovery

import "testing"

func TestParseD2CCR(t *testing.T) {
	xml := []byte(`<P2P><D2C_C_R><rsp>0</rsp><cid>7</cid><did>9</did><timer><def>20000</def><hb>5000</hb><hbt>3</hbt></timer></D2C_C_R></P2P>`)
	got, err := ParseD2CCR(xml)
	if err != nil {
		t.Fatalf("ParseD2CCR: %v", err)
	}
	if got.Body.CID != 7 || got.Body.DID != 9 {
		t.Fatalf("got cid=%d did=%d, want 7/9", got.Body.CID, got.Body.DID)
	}
	if got.Body.Timer.HB != 5000 {
		t.Fatalf("got hb=%d, want 5000", got.Body.Timer.HB)
	}
}

func TestBuildC2DC(t *testing.T) {
	wire, err := BuildC2DC("ABCD1234", 12345, 1, 1350, "aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("BuildC2DC: %v", err)
	}
	if len(wire) == 0 {
		t.Fatal("expected non-empty payload")
	}
}

func TestBuildC2DTAndParseD2CT(t *testing.T) {
	wire, err := BuildC2DT(1, "local", 7, 1350)
	if err != nil {
		t.Fatalf("BuildC2DT: %v", err)
	}
	if len(wire) == 0 {
		t.Fatal("expected non-empty C2D_T payload")
	}

	reply := []byte(`<P2P><D2C_T><sid>1</sid><conn>local</conn><cid>7</cid><did>9</did></D2C_T></P2P>`)
	got, err := ParseD2CT(reply)
	if err != nil {
		t.Fatalf("ParseD2CT: %v", err)
	}
	if got.Body.CID != 7 || got.Body.DID != 9 {
		t.Fatalf("got cid=%d did=%d, want 7/9", got.Body.CID, got.Body.DID)
	}
}

func TestParseD2CCRMalformed(t *testing.T) {
	if _, err := ParseD2CCR([]byte("not xml")); err != ErrMalformedResponse {
		t.Fatalf("got %v, want ErrMalformedResponse", err)
	}
}
