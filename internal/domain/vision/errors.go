package vision

import "errors"

// ErrDecode reports a source that could not be opened or decoded.
var ErrDecode = errors.New("vision: cannot decode source")
