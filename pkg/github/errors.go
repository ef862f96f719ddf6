package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// IsPermissionError reports whether err is an authorization failure
// (401/403). Tokens on fork-originated pull requests typically cannot write
// comments, which surfaces as a 403 on create/update.
func IsPermissionError(err error) bool {
	if IsRateLimitError(err) {
		return false
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		code := errResp.Response.StatusCode
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	return false
}

// IsNotFoundError reports whether err is a 404 from the API
func IsNotFoundError(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimitError reports whether err is a primary or secondary rate limit
// rejection
func IsRateLimitError(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}
