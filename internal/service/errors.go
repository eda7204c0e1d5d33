package service

import "errors"

// AccountError is the single domain failure kind of the payment core. It is
// raised for caller-data problems (an account that cannot be resolved) and
// never for infrastructure failures, which are wrapped and returned as-is.
type AccountError struct {
	Message string
}

func (e *AccountError) Error() string { return e.Message }

// NewAccountError builds an AccountError with the given message.
func NewAccountError(message string) *AccountError {
	return &AccountError{Message: message}
}

var (
	ErrNoSourceAccount      = NewAccountError("No source account")
	ErrNoDestinationAccount = NewAccountError("No destination account")
	ErrNoCommissionAccount  = NewAccountError("No commission account")
	ErrAccountNotFound      = NewAccountError("Account not found")

	ErrAmbiguousSourceAccount      = NewAccountError("Ambiguous source account")
	ErrAmbiguousDestinationAccount = NewAccountError("Ambiguous destination account")
	ErrAmbiguousCommissionAccount  = NewAccountError("Ambiguous commission account")
)

// IsAccountError reports whether err carries an AccountError anywhere in its chain.
func IsAccountError(err error) bool {
	var accountErr *AccountError
	return errors.As(err, &accountErr)
}

// IsAmbiguous reports whether err signals that more than one account matched.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousSourceAccount) ||
		errors.Is(err, ErrAmbiguousDestinationAccount) ||
		errors.Is(err, ErrAmbiguousCommissionAccount)
}
