package service

// ValidationError reports missing or malformed request fields.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// ConflictError reports a request that contradicts persisted state, such as
// paying for an already-paid booking.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }
