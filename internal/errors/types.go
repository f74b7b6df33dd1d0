package errors

// ErrorType is a class of errors. Wrapped errors keep their class and it can be
// recovered with FindErrorType.
type ErrorType struct {
	message string
}

var (
	// ErrInvalidState is returned when an operation is called out of sequence, ie
	// before the transaction it needs was made active.
	ErrInvalidState = newErrorType("invalid state")
	// ErrInvalidArgument is returned for arguments that can never be valid.
	ErrInvalidArgument = newErrorType("invalid argument")
	// ErrInvalidConfiguration is returned when a component is constructed without a required collaborator.
	ErrInvalidConfiguration = newErrorType("invalid configuration")
	// ErrLedgerIntegrity is returned when the balance ledger refuses a transfer that
	// must not fail. The node cannot continue with the current state.
	ErrLedgerIntegrity = newErrorType("ledger integrity violation")
)

func newErrorType(message string) *ErrorType {
	return &ErrorType{message: message}
}

func (e *ErrorType) Error() string {
	return e.message
}

// FindErrorType walks the chain of wrapped errors and returns the first ErrorType
// found, nil if the chain has none.
func FindErrorType(err error) *ErrorType {
	var et *ErrorType
	if As(err, &et) {
		return et
	}
	return nil
}
