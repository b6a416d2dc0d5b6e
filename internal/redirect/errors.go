package redirect

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeaderValue = errors.New("invalid header value")
	ErrInvalidUTF8        = errors.New("slug is not valid UTF-8")
)

// ResponseConstructionError reports a redirect response that could not be
// assembled. It is fatal for the invocation that produced it.
type ResponseConstructionError struct {
	Header string
	Value  string
	Err    error
}

func (e *ResponseConstructionError) Error() string {
	return fmt.Sprintf("build redirect response: header %q value %q: %v", e.Header, e.Value, e.Err)
}

func (e *ResponseConstructionError) Unwrap() error {
	return e.Err
}

func IsResponseConstructionError(err error) bool {
	var target *ResponseConstructionError
	return errors.As(err, &target)
}
