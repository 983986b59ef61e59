package oauth_test

import (
	"net/http"
	"net/http/httptest"
)

// rewriteTransport routes every outgoing request to a local handler instead
// of the provider's real host.
type rewriteTransport struct {
	handler http.Handler
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	recorder := httptest.NewRecorder()
	t.handler.ServeHTTP(recorder, req)
	return recorder.Result(), nil
}

func clientFor(handler http.HandlerFunc) *http.Client {
	return &http.Client{Transport: &rewriteTransport{handler: handler}}
}

// failingTransport fails every request at the transport layer.
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, http.ErrHandlerTimeout
}
