package hubspot

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrRetryLimit is returned when every attempt for one page came back rate
// limited. It carries no further detail.
var ErrRetryLimit = eris.New("hubspot: retry limit exceeded")

// APIError is a non-200, non-429 response from the search endpoint. It is
// terminal for the call: no retry is attempted.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot: api error: %d - %s", e.StatusCode, e.Body)
}
