// Package bigbluebutton speaks the BigBlueButton HTTP API: signed GET
// requests against the api endpoint, XML envelopes back.
package bigbluebutton

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	base   string
	secret string
	http   *http.Client
}

func New(server, secret string) *Client {
	return &Client{
		base:   strings.TrimSuffix(server, "/") + "/bigbluebutton/api",
		secret: secret,
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// BuildURL assembles a signed request URL for the named API call. It is
// pure: no request is issued. The checksum is the protocol's mandated
// SHA-1 over the call name, the canonical (sorted, url-encoded) query
// string and the shared secret, in that order.
func (c *Client) BuildURL(call string, params url.Values) string {
	query := params.Encode()
	digest := sha1.Sum([]byte(call + query + c.secret))

	if len(query) > 0 {
		query += "&"
	}
	return c.base + "/" + call + "?" + query + "checksum=" + hex.EncodeToString(digest[:])
}

type Result struct {
	Status int
	Body   []byte
}

// Do issues the GET built by BuildURL. Non-2xx statuses are not an error
// here; callers decide how to treat them per operation.
func (c *Client) Do(ctx context.Context, rawurl string) (Result, error) {
	var result Result

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return result, err
	}

	response, err := c.http.Do(request)
	if err != nil {
		return result, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return result, err
	}

	result.Status = response.StatusCode
	result.Body = body
	return result, nil
}
