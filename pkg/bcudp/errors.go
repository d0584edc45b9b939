package bcudp

import "errors"

var (
	ErrBadMagic            = errors.New("bcudp: unrecognized datagram magic")
	ErrHeaderTooShort      = errors.New("bcudp: datagram too short for header")
	ErrDuplicatePacket     = errors.New("bcudp: duplicate packet id, discarded")
	ErrProtocolAbort       = errors.New("bcudp: ack truth table exceeds limit, protocol abort")
	ErrSessionEnded        = errors.New("bcudp: session ended")
	ErrTimedOut            = errors.New("bcudp: deadline expired without response")
	ErrSendWindowFull      = errors.New("bcudp: send window full")
	ErrPendingRetransmit   = errors.New("bcudp: exchange already has a pending retransmit")
)
