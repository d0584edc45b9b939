package transport

import (
	"fmt"
	"net"
)

// PeerAddress identifies a camera by network address and wire transport.
type PeerAddress struct {
	Addr net.Addr
	Kind Kind
}

// String returns a human-readable representation of the peer address.
func (p PeerAddress) String() string {
	if p.Addr == nil {
		return fmt.Sprintf("%s:<nil>", p.Kind)
	}
	return fmt.Sprintf("%s:%s", p.Kind, p.Addr.String())
}

// IsValid returns true if the peer address has a known kind and a non-nil address.
func (p PeerAddress) IsValid() bool {
	return p.Kind.IsValid() && p.Addr != nil
}

// NewBcUDPPeerAddress creates a PeerAddress for a BcUDP peer.
func NewBcUDPPeerAddress(addr net.Addr) PeerAddress {
	return PeerAddress{Addr: addr, Kind: KindBcUDP}
}

// NewTCPPeerAddress creates a PeerAddress for a TCP peer.
func NewTCPPeerAddress(addr net.Addr) PeerAddress {
	return PeerAddress{Addr: addr, Kind: KindTCP}
}

// UDPAddrFromString parses addr and creates a BcUDP PeerAddress.
func UDPAddrFromString(addr string) (PeerAddress, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return PeerAddress{}, err
	}
	return NewBcUDPPeerAddress(udpAddr), nil
}

// TCPAddrFromString parses addr and creates a TCP PeerAddress.
func TCPAddrFromString(addr string) (PeerAddress, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return PeerAddress{}, err
	}
	return NewTCPPeerAddress(tcpAddr), nil
}
