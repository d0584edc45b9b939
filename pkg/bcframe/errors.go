package bcframe

import "errors"

var (
	ErrBadMagic    = errors.New("bcframe: bad magic, frame skipped")
	ErrTruncated   = errors.New("bcframe: short read on declared body")
	ErrStreamClosed = errors.New("bcframe: underlying stream closed")
)
