package media

import "errors"

// ErrTruncated is returned by Close when the stream ends mid-packet
// (spec.md Section 7, "Truncated").
var ErrTruncated = errors.New("media: truncated packet at stream end")
