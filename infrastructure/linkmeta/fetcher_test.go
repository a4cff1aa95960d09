package linkmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "boardcore/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Example Page</title>
<meta name="description" content="A plain description">
<meta property="og:title" content="OG Title">
<meta property="og:image" content="https://cdn.example.com/hero.png">
<link rel="icon" href="/static/favicon.ico">
</head>
<body></body>
</html>`

func TestFetcher_ExtractsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), zap.NewNop())
	meta, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	// The document title wins over og:title, matching the fallback order
	assert.Equal(t, "Example Page", meta.Title)
	assert.Equal(t, "A plain description", meta.Description)
	assert.Equal(t, "https://cdn.example.com/hero.png", meta.Image)
	// Relative favicon is absolutized against the page URL
	assert.Equal(t, srv.URL+"/static/favicon.ico", meta.Favicon)
}

func TestFetcher_FaviconDefaultsWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Bare</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), zap.NewNop())
	meta, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Bare", meta.Title)
	assert.Equal(t, srv.URL+"/favicon.ico", meta.Favicon)
}

func TestFetcher_RejectsInvalidURL(t *testing.T) {
	f := NewFetcher(nil, zap.NewNop())

	_, err := f.Fetch(context.Background(), "ftp://example.com")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = f.Fetch(context.Background(), "not a url")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetcher_HonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
