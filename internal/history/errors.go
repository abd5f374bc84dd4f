package history

// BackendError wraps a repository access failure with the operation that hit it.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}
