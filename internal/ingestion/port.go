package ingestion

import (
	"context"
	"io"

	"operateurs-bio-api/internal/logs"
)

type IngestionServiceAPI interface {
	Run(ctx context.Context) (Report, error)
}

// FeedSource hands out the raw feed as a UTF-8 byte stream. The network
// client implements it; tests substitute an in-memory reader.
type FeedSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

type LogServicePort interface {
	Log(entry logs.SystemLog, metadata interface{}) error
}
