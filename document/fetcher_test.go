package document

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
)

func TestConvertGoogleDocsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain URL unchanged",
			url:  "https://example.com/doc.pdf",
			want: "https://example.com/doc.pdf",
		},
		{
			name: "document path form",
			url:  "https://docs.google.com/document/d/abc123/edit",
			want: "https://docs.google.com/document/d/abc123/export?format=pdf",
		},
		{
			name: "id query form",
			url:  "https://docs.google.com/open?id=abc123&usp=sharing",
			want: "https://docs.google.com/document/d/abc123/export?format=pdf",
		},
		{
			name: "drive link form",
			url:  "https://docs.google.com/file/d/abc123/view?usp=drive_link",
			want: "https://docs.google.com/document/d/abc123/export?format=pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertGoogleDocsURL(tt.url))
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Run("returns body on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pdf bytes"))
		}))
		defer srv.Close()

		f := NewFetcher()
		body, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf bytes"), body)
	})

	t.Run("non-2xx wraps ErrFetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		f := NewFetcher()
		_, err := f.Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrFetch))
	})

	t.Run("unreachable host wraps ErrFetch", func(t *testing.T) {
		f := NewFetcher()
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrFetch))
	})
}

func TestExtractPages_NotAPDF(t *testing.T) {
	_, err := ExtractPages([]byte("definitely not a pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrIngestion))
}
