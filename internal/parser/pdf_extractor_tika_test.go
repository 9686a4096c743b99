package parser

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTikaPDFExtractor_Defaults(t *testing.T) {
	extractor := NewTikaPDFExtractor("http://localhost:9998")
	require.NotNil(t, extractor)
	assert.Equal(t, "http://localhost:9998", extractor.ServerURL)
	require.NotNil(t, extractor.Client)
	assert.Equal(t, 60*time.Second, extractor.Client.Timeout)
}

func TestNewTikaPDFExtractor_Options(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	extractor := NewTikaPDFExtractor("http://localhost:9998",
		WithTimeout(10*time.Second),
		WithAnnotations(false),
		WithTikaLogger(logger),
	)
	assert.Equal(t, 10*time.Second, extractor.Client.Timeout)
	assert.False(t, extractor.extractAnnotations)
}

func TestTikaExtractTextFromBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "resume.pdf", r.Header.Get("X-Tika-Resource-Name"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("%PDF-fake"), body)

		_, _ = w.Write([]byte("张伟\n5年Go开发经验"))
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL, WithTikaLogger(log.New(io.Discard, "", 0)))
	text, metadata, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-fake"), "resume.pdf", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "5年Go开发经验")
	assert.Equal(t, "resume.pdf", metadata["source_file_path"])
	assert.Equal(t, len(text), metadata["text_length"])
}

func TestTikaExtractTextFromReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("reader content"))
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL, WithTikaLogger(log.New(io.Discard, "", 0)))
	text, _, err := extractor.ExtractTextFromReader(context.Background(), bytes.NewReader([]byte("%PDF-fake")), "r.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "reader content", text)
}

func TestTikaExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL, WithTikaLogger(log.New(io.Discard, "", 0)))
	_, _, err := extractor.ExtractTextFromBytes(context.Background(), []byte("broken"), "bad.pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestTikaExtract_AnnotationHeader(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Tika-PDFExtractAnnotationText")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL,
		WithAnnotations(false),
		WithTikaLogger(log.New(io.Discard, "", 0)))
	_, _, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "false", gotHeader)
}
