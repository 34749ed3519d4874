package loan

import "errors"

var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrPaymentNotFound = errors.New("loan payment not found")
)
