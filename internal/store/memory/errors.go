package memory

import "errors"

var errInvalidJSON = errors.New("data is not valid JSON")
