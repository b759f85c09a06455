package types

// ValidationError represents rejected user input that should not be retried
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// PreconditionError represents a caller mistake, such as an out-of-range index
// or an action issued from the wrong view. It should not be retried.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

// PersistenceError represents a key-value backend failure that may succeed on retry
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NonRetryableErrorTypes lists the error type names activities must not retry.
var NonRetryableErrorTypes = []string{"ValidationError", "PreconditionError"}
