// Package upstream provides HTTP clients for the order and payment services.
package upstream

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnavailable is returned when an upstream service cannot be reached or
// responds with a non-success status.
var ErrUnavailable = errors.New("upstream service unavailable")

const requestTimeout = 5 * time.Second

// newClient builds a resty client with the fixed upstream timeout.
// Retries are the caller's policy choice; none are configured here.
func newClient(baseURL string) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(requestTimeout)
	client.SetRetryCount(0)
	return client
}
