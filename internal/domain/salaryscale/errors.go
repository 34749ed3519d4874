package salaryscale

import "errors"

var ErrEntryNotFound = errors.New("salary scale entry not found")
