package apiclient

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

// RequestIDHeader carries the id Client.Do assigns to every request.
const RequestIDHeader = "X-Request-ID"

// AuthTransport adds the bearer token and negotiates brotli. A 401 answer to
// a request that carried a token expires the credentials.
type AuthTransport struct {
	Credentials Credentials
	Base        http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	token := ""
	if t.Credentials != nil {
		token = t.Credentials.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		t.Credentials.Expire(req.Context())
	}

	return resp, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
