package bcudp

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/logging"
)

// ConnectionConfig configures a Connection.
type ConnectionConfig struct {
	// Conn is the underlying UDP socket, already connected or ready to
	// WriteTo/ReadFrom the peer.
	Conn net.PacketConn

	// PeerAddr is the BcUDP peer's address.
	PeerAddr net.Addr

	// ConnectionID identifies this session to the peer (spec.md Section 4.3).
	ConnectionID uint32

	// MTU bounds outbound Data payload size; defaults to DefaultMTU.
	MTU int

	// RetransmitInterval overrides DataRetransmitInterval for Data packets.
	RetransmitInterval time.Duration

	// AckInterval controls how often an Ack is sent for newly received data.
	AckInterval time.Duration

	LoggerFactory logging.LoggerFactory
}

// Connection is one BcUDP reliable session: it chunks outbound byte
// streams into MTU-bounded Data packets, retransmits until acked, and
// reassembles inbound Data packets back into an ordered byte stream
// (spec.md Section 4.3). It does not itself own the discovery handshake;
// callers establish ConnectionID and PeerAddr out of band (pkg/discovery)
// before constructing one.
type Connection struct {
	conn         net.PacketConn
	peerAddr     net.Addr
	connectionID uint32
	mtu          int
	ackInterval  time.Duration
	log          logging.LeveledLogger

	sendWindow *SendWindow
	recvWindow *RecvWindow

	nextPacketID atomic.Uint32

	closeCh chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewConnection creates a Connection ready to Start.
func NewConnection(cfg ConnectionConfig) (*Connection, error) {
	if cfg.Conn == nil || cfg.PeerAddr == nil {
		return nil, ErrHeaderTooShort
	}
	mtu := cfg.MTU
	if mtu <= 0 {
		mtu = DefaultMTU
	}
	interval := cfg.RetransmitInterval
	if interval <= 0 {
		interval = DataRetransmitInterval
	}
	ackInterval := cfg.AckInterval
	if ackInterval <= 0 {
		ackInterval = interval / 2
	}

	c := &Connection{
		conn:         cfg.Conn,
		peerAddr:     cfg.PeerAddr,
		connectionID: cfg.ConnectionID,
		mtu:          mtu,
		ackInterval:  ackInterval,
		recvWindow:   NewRecvWindow(),
		closeCh:      make(chan struct{}),
	}
	if cfg.LoggerFactory != nil {
		c.log = cfg.LoggerFactory.NewLogger("bcudp")
	}
	c.sendWindow = NewSendWindow(interval, c.sendDataPacket)
	return c, nil
}

// Start begins the read loop and periodic ack ticker.
func (c *Connection) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionEnded
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	c.wg.Add(2)
	go c.readLoop()
	go c.ackLoop()
	return nil
}

// Stop halts the read loop, cancels pending retransmits, and closes the
// reassembly stream.
func (c *Connection) Stop() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.closeCh)
	c.sendWindow.Close()
	c.recvWindow.Close()
	c.wg.Wait()
	return nil
}

// Stream returns the channel of reassembled, in-order payload chunks.
func (c *Connection) Stream() <-chan []byte {
	return c.recvWindow.Stream()
}

// Write chunks payload into MTU-bounded Data packets and hands each to the
// send window for transmission and retransmission tracking.
func (c *Connection) Write(payload []byte) error {
	for len(payload) > 0 {
		n := c.mtu
		if n > len(payload) {
			n = len(payload)
		}
		chunk := payload[:n]
		payload = payload[n:]

		id := c.nextPacketID.Add(1) - 1
		c.sendWindow.Add(id, chunk)
		c.sendDataPacket(id, chunk)
	}
	return nil
}

func (c *Connection) sendDataPacket(packetID uint32, payload []byte) {
	h := DataHeader{
		ConnectionID: c.connectionID,
		PacketID:     packetID,
		PayloadSize:  uint32(len(payload)),
	}
	wire := append(EncodeDataHeader(h), payload...)
	if _, err := c.conn.WriteTo(wire, c.peerAddr); err != nil {
		if c.log != nil {
			c.log.Warnf("bcudp: data send failed: %v", err)
		}
	}
}

func (c *Connection) sendAck() {
	table, last, err := c.recvWindow.TruthTable()
	if err == ErrProtocolAbort {
		if c.log != nil {
			c.log.Error("bcudp: ack truth table exceeded limit, aborting connection")
		}
		c.Stop()
		return
	}
	h := AckHeader{
		ConnectionID: c.connectionID,
		LastReceived: last,
		PayloadSize:  uint32(len(table)),
	}
	wire := append(EncodeAckHeader(h), table...)
	if _, err := c.conn.WriteTo(wire, c.peerAddr); err != nil {
		if c.log != nil {
			c.log.Warnf("bcudp: ack send failed: %v", err)
		}
	}
}

func (c *Connection) ackLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.ackInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.closeCh:
			return
		case <-ticker.C:
			c.sendAck()
		}
	}
}

func (c *Connection) readLoop() {
	defer c.wg.Done()
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := c.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-c.closeCh:
				return
			default:
				continue
			}
		}
		c.handleDatagram(buf[:n])
	}
}

func (c *Connection) handleDatagram(data []byte) {
	magic, err := PeekMagic(data)
	if err != nil {
		return
	}
	switch magic {
	case MagicData:
		h, err := DecodeDataHeader(data)
		if err != nil {
			return
		}
		body := data[dataHeaderLen:]
		if uint32(len(body)) < h.PayloadSize {
			return
		}
		payload := make([]byte, h.PayloadSize)
		copy(payload, body[:h.PayloadSize])
		if err := c.recvWindow.Accept(h.PacketID, payload); err != nil && c.log != nil {
			c.log.Debugf("bcudp: %v", err)
		}
	case MagicAck:
		h, err := DecodeAckHeader(data)
		if err != nil {
			return
		}
		c.sendWindow.AckThrough(h.LastReceived)
		table := data[ackHeaderLen:]
		if uint32(len(table)) >= h.PayloadSize {
			c.sendWindow.AckTruthTable(h.LastReceived, table[:h.PayloadSize])
		}
	default:
		if c.log != nil {
			c.log.Debugf("bcudp: unrecognized datagram magic 0x%08x", magic)
		}
	}
}
