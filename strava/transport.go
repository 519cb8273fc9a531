package strava

import (
	"fmt"
	"io"
	"net/http"

	"github.com/marcelsud/activity-refiner/token"
	"github.com/rs/zerolog"
)

// Transport is an http.RoundTripper that authenticates requests with the
// session's access token and, on a 401, refreshes once and replays.
type Transport struct {
	Session   *token.Session
	Refresher *Refresher
	Logger    zerolog.Logger

	// Base is the RoundTripper making the actual requests.
	// If nil, http.DefaultTransport is used.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req2 := cloneRequest(req)
	req2.Header.Set("Authorization", "Bearer "+t.Session.AccessToken())

	resp, err := base.RoundTrip(req2)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	t.Logger.Warn().Str("url", req.URL.String()).Msg("access token rejected, refreshing")

	if err := t.Refresher.Refresh(req.Context(), t.Session); err != nil {
		return nil, err
	}

	req3 := cloneRequest(req)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		req3.Body = body
	}
	req3.Header.Set("Authorization", "Bearer "+t.Session.AccessToken())

	return base.RoundTrip(req3)
}

// cloneRequest returns a shallow copy of r with its own Header map
func cloneRequest(r *http.Request) *http.Request {
	r2 := new(http.Request)
	*r2 = *r
	r2.Header = make(http.Header, len(r.Header))
	for k, s := range r.Header {
		r2.Header[k] = append([]string(nil), s...)
	}
	return r2
}
