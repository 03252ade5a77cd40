package session

import (
	"net/url"
	"time"
)

// Request is the fully-formed description of one HTTP call. It is plain
// data: the session reads it and never mutates it.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

// Host returns the host component of the request URL, or "" when the URL
// does not parse.
func (r *Request) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Host
}
