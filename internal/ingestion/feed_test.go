package ingestion

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFeedClient_Open_DecodesLatin3(t *testing.T) {
	// "Préparation" with é encoded as the single ISO-8859-3 byte 0xE9.
	raw := []byte("ACTIVITES\nPr\xe9paration\n")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer srv.Close()

	fc := &FeedClient{URL: srv.URL}
	body, err := fc.Open(context.Background())
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	defer body.Close()

	decoded, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(decoded), "Préparation") {
		t.Fatalf("expected decoded UTF-8 'Préparation', got %q", decoded)
	}
}

func TestFeedClient_Open_Non200_IsFeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fc := &FeedClient{URL: srv.URL}
	_, err := fc.Open(context.Background())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestFeedClient_Open_UnreachableHost_IsFeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	fc := &FeedClient{URL: url}
	_, err := fc.Open(context.Background())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestFeedClient_Open_CancelledContextIsNotAFeedOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := &FeedClient{URL: srv.URL}
	_, err := fc.Open(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("cancellation must not surface as a feed outage, got %v", err)
	}
}
