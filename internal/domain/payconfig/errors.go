package payconfig

import "errors"

var (
	ErrRateSetNotFound = errors.New("no contribution rate set in effect")
)
