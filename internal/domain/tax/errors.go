package tax

import "errors"

var ErrBracketTableNotFound = errors.New("no tax bracket table in effect")
