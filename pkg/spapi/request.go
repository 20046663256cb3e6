package spapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Param is one query parameter. Requests carry an ordered slice of Params
// so that order and repeated keys survive encoding.
type Param struct {
	Key   string
	Value string
}

// Params builds a parameter list from alternating key/value strings.
// A trailing key without a value is ignored.
func Params(kv ...string) []Param {
	out := make([]Param, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Param{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// EncodeParams percent-encodes params in the order given. Unlike
// url.Values.Encode it neither sorts nor merges keys.
func EncodeParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// BuildURL joins baseURL and path and appends the encoded params.
func BuildURL(baseURL, path string, params []Param) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing base url %q: %w", ErrURL, baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: base url %q is not absolute", ErrURL, baseURL)
	}
	if base.RawQuery != "" || base.Fragment != "" {
		return "", fmt.Errorf("%w: base url %q has a query or fragment", ErrURL, baseURL)
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: path %q must start with /", ErrURL, path)
	}
	if strings.ContainsAny(path, "?#") {
		return "", fmt.Errorf("%w: path %q contains a query or fragment", ErrURL, path)
	}
	for _, p := range params {
		if p.Key == "" {
			return "", fmt.Errorf("%w: empty query parameter key", ErrURL)
		}
	}

	raw := strings.TrimRight(baseURL, "/") + path
	if q := EncodeParams(params); q != "" {
		raw += "?" + q
	}

	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: parsing %q: %w", ErrURL, raw, err)
	}

	return raw, nil
}

// BuildRequest assembles a transport-ready request. A nil body sends no
// payload; non-nil bodies are passed through unchanged.
func BuildRequest(
	ctx context.Context,
	method, baseURL, path string,
	params []Param,
	headers http.Header,
	body []byte,
) (*http.Request, error) {
	u, err := BuildURL(baseURL, path, params)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrURL, err)
	}

	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return req, nil
}
