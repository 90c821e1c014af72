// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/core/novel"
	"github.com/seojinpark/novelshelf/internal/platform/apperr"
)

/*
TestFetchClient_Success verifies the request payload shape and the decoding of
a successful metadata response.
*/
func TestFetchClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		// 1. Payload carries the platform reference
		var payload map[string]string
		require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
		assert.Equal(t, "12345", payload["id"])
		assert.Equal(t, "ridi", payload["platform"])

		// 2. Respond with metadata
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"title":    "Solo Library",
			"author":   "Kim Dokja",
			"category": "modern_fantasy",
		})
	}))
	defer server.Close()

	client := novel.NewFetchClient(server.URL)
	fetched, err := client.Fetch(context.Background(), novel.PlatformRidi, "12345")
	require.NoError(t, err)

	assert.Equal(t, "Solo Library", fetched.Title)
	assert.Equal(t, novel.CategoryModernFantasy, fetched.Category)
}

/*
TestFetchClient_BadRequestPassesDetailThrough verifies the scraper's 400
detail message surfaces verbatim as a validation error.
*/
func TestFetchClient_BadRequestPassesDetailThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(writer).Encode(map[string]string{"detail": "unsupported series format"})
	}))
	defer server.Close()

	client := novel.NewFetchClient(server.URL)
	_, err := client.Fetch(context.Background(), novel.PlatformSeries, "1")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Equal(t, "unsupported series format", appError.Message)
}

/*
TestFetchClient_NotFound verifies a 404 maps to the domain NotFound error.
*/
func TestFetchClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := novel.NewFetchClient(server.URL)
	_, err := client.Fetch(context.Background(), novel.PlatformKakao, "1")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestFetchClient_UnexpectedStatus verifies any other non-2xx status maps to an
opaque upstream failure.
*/
func TestFetchClient_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := novel.NewFetchClient(server.URL)
	_, err := client.Fetch(context.Background(), novel.PlatformMunpia, "1")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UPSTREAM_ERROR", appError.Code)
}
