package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/encoding/charmap"
)

var ErrFeedUnavailable = errors.New("la source de données open data est injoignable")

// FeedClient fetches the operator snapshot from data.gouv.fr. The published
// file is ISO-8859-3 encoded; Open returns a reader that yields UTF-8, so
// accented names and certifier labels survive intact.
type FeedClient struct {
	URL        string
	HTTPClient *http.Client
}

type decodedBody struct {
	io.Reader
	body io.Closer
}

func (d *decodedBody) Close() error {
	return d.body.Close()
}

func (fc *FeedClient) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	client := fc.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		// A cancelled or expired caller context is not a feed outage.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: statut HTTP %d", ErrFeedUnavailable, resp.StatusCode)
	}

	return &decodedBody{
		Reader: charmap.ISO8859_3.NewDecoder().Reader(resp.Body),
		body:   resp.Body,
	}, nil
}
