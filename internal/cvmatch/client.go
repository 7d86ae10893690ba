package cvmatch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "http://localhost:8080"
	userAgent = "cvmatch/cvmatch-cli"
)

// Client is a thin client for the CVMatch platform HTTP API. All scoring
// and matching happens on the platform side; the client only moves
// documents and profile data back and forth.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			// Uploads carry whole documents, so the timeout is wider
			// than for plain JSON calls.
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// SetToken replaces the bearer token used for authenticated calls.
// Needed after a fresh login, when the client was built without one.
func (c *Client) SetToken(token string) {
	c.token = token
}
