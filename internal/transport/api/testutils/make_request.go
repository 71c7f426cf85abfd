package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
	body    io.Reader
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest runs the request through the router and returns the recorded response.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions) error) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
		body:    args.Body,
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, err
		}
	}

	request := httptest.NewRequest(args.Method, args.URL, options.body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

func WithHeader(name, value string) func(*RequestOptions) error {
	return func(fn *RequestOptions) error {
		fn.headers[name] = value
		return nil
	}
}

func WithBearer(token string) func(*RequestOptions) error {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithJSON encodes payload as the request body.
func WithJSON(payload any) func(*RequestOptions) error {
	return func(fn *RequestOptions) error {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %s", err.Error())
		}
		fn.body = bytes.NewReader(body)
		fn.headers["Content-Type"] = "application/json"
		fn.headers["Accept"] = "application/json"
		return nil
	}
}

// DecodeJSON reads and closes the response body.
func DecodeJSON(res *http.Response, out any) error {
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %s", err.Error())
	}
	return nil
}
