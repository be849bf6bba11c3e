package serrors

// Base is a stable, code-carrying error. Codes are part of the API surface
// and must not change between releases.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return e.Message
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

// Code extracts the stable code from an error chain, or "" when the error
// carries none.
func Code(err error) string {
	for err != nil {
		if base, ok := err.(*Base); ok {
			return base.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
