package pure

import "errors"

var ErrInvalidSize = errors.New("invalid size")
