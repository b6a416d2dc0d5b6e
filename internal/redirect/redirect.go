package redirect

import (
	"net/http"
	"unicode/utf8"

	"blogredirect/internal/slug"
	"golang.org/x/net/http/httpguts"
)

const (
	BlogBaseURL = "https://mechanicalrock.io/blog/"

	HeaderLocation = "location"
	bodyPrefix     = "Redirected to "
)

// Response is the redirect handed back to the hosting runtime. It is built per
// invocation and never retained.
type Response struct {
	StatusCode int
	Location   string
	Body       string
}

// Resolve turns a raw request path into its blog redirect.
func Resolve(path string) (Response, error) {
	return Build(slug.Compute(path))
}

// Build assembles the permanent redirect for slug. The slug is interpolated
// verbatim into both the location header and the body.
func Build(slugValue string) (Response, error) {
	location := BlogBaseURL + slugValue
	if !httpguts.ValidHeaderFieldValue(location) {
		return Response{}, &ResponseConstructionError{
			Header: HeaderLocation,
			Value:  location,
			Err:    ErrInvalidHeaderValue,
		}
	}
	// Truncation counts bytes, so a multi-byte character can be cut in half.
	if !utf8.ValidString(slugValue) {
		return Response{}, &ResponseConstructionError{
			Header: HeaderLocation,
			Value:  location,
			Err:    ErrInvalidUTF8,
		}
	}

	return Response{
		StatusCode: http.StatusMovedPermanently,
		Location:   location,
		Body:       bodyPrefix + slugValue,
	}, nil
}

func (r Response) Headers() map[string]string {
	return map[string]string{
		HeaderLocation: r.Location,
		"content-type": "text/plain; charset=utf-8",
	}
}
