package strava

import (
	"context"
	"errors"
	"net/http"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/token"
	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is Strava's OAuth token endpoint
	DefaultTokenURL = "https://www.strava.com/oauth/token"

	refreshOp = "strava.refresh"
)

// Refresher exchanges the session's refresh token for a new pair
type Refresher struct {
	config     oauth2.Config
	httpClient *http.Client
}

// NewRefresher creates a refresher posting client credentials as form params
func NewRefresher(clientID, clientSecret, tokenURL string, httpClient *http.Client) *Refresher {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Refresher{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// Refresh rotates the session. A rejected refresh token is fatal and needs
// an operator reseed; a token endpoint outage is transient.
func (r *Refresher) Refresh(ctx context.Context, s *token.Session) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	current := s.RefreshToken()
	tok, err := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current}).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
			return fault.New(fault.UpstreamAuth, refreshOp, err)
		}
		return fault.New(fault.UpstreamTransient, refreshOp, err)
	}

	next := token.Pair{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = current
	}
	s.Rotate(next)
	return nil
}
