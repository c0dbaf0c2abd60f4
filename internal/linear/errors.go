package linear

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("linear: missing API key")
	// ErrTeamNotFound is returned when the roster query resolves to no team.
	ErrTeamNotFound = errors.New("linear: team not found")
)

// HTTPError reports a non-success HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// QueryError wraps a remote-reported or decoding failure of one operation.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Describe renders err as a message suitable for the status line.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "No API key configured. Set LINEAR_API_KEY or api_key in the config file."
	case errors.Is(err, ErrTeamNotFound):
		return "Team not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.As(err, &httpErr):
		if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
			return fmt.Sprintf("Invalid or unauthorized API key (HTTP %d)", httpErr.StatusCode)
		}
		return httpErr.Error()
	}

	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return queryErr.Err.Error()
	}
	return err.Error()
}
