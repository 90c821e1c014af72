// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/constants"
)

// # External Fetch Service

// FetchedNovel is the metadata payload returned by the novel fetch service.
type FetchedNovel struct {
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	ImageURL      string     `json:"image_url"`
	PublishedAt   *time.Time `json:"published_at"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

// Fetcher retrieves novel metadata from an external platform scraper.
type Fetcher interface {

	/*
		Fetch resolves a platform identifier into full novel metadata.

		Parameters:
		  - context: context.Context
		  - platform: Platform (Source platform of the identifier)
		  - externalID: string (Platform-scoped novel identifier)

		Returns:
		  - *FetchedNovel: Metadata on success
		  - error: apperr.ValidationError (400 detail passed through),
		    apperr.NotFound (404), or apperr.Upstream on any other failure
	*/
	Fetch(context context.Context, platform Platform, externalID string) (*FetchedNovel, error)
}

// fetchRequest is the outbound JSON payload sent to the fetch service.
type fetchRequest struct {
	ID       string   `json:"id"`
	Platform Platform `json:"platform"`
}

// fetchErrorResponse carries the error detail body of a 400 response.
type fetchErrorResponse struct {
	Detail string `json:"detail"`
}

// FetchClient is the HTTP implementation of [Fetcher].
type FetchClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFetchClient constructs a fetch client with the fixed outbound deadline.
func NewFetchClient(baseURL string) *FetchClient {
	return &FetchClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.NovelFetchTimeout,
		},
	}
}

/*
Fetch resolves a platform identifier into full novel metadata.

Description: POSTs the platform reference to the fetch service and maps its
status codes onto the domain error taxonomy. A 400 response carries a detail
message authored by the scraper which is surfaced verbatim to the caller.

Parameters:
  - context: context.Context
  - platform: Platform
  - externalID: string

Returns:
  - *FetchedNovel: Metadata on success
  - error: Mapped domain error per status code
*/
func (client *FetchClient) Fetch(context context.Context, platform Platform, externalID string) (*FetchedNovel, error) {

	// Outbound payload assembly
	body, err := json.Marshal(fetchRequest{ID: externalID, Platform: platform})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch: failed to encode request: %w", err))
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, client.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch: failed to build request: %w", err))
	}
	request.Header.Set("Content-Type", "application/json")

	// Dispatch with the fixed client deadline
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.Upstream("Novel fetch service is unreachable", err)
	}
	defer response.Body.Close()

	// Status taxonomy mapping
	switch {
	case response.StatusCode == http.StatusBadRequest:
		var detail fetchErrorResponse
		if err := json.NewDecoder(response.Body).Decode(&detail); err != nil || detail.Detail == "" {
			detail.Detail = "Novel fetch request was rejected"
		}
		return nil, apperr.ValidationError(detail.Detail)

	case response.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("Novel source")

	case response.StatusCode < 200 || response.StatusCode >= 300:
		return nil, apperr.Upstream(
			"Novel fetch service returned an unexpected response",
			fmt.Errorf("fetch: status %d", response.StatusCode),
		)
	}

	// Success payload decoding
	fetched := &FetchedNovel{}
	if err := json.NewDecoder(response.Body).Decode(fetched); err != nil {
		return nil, apperr.Upstream("Novel fetch service returned a malformed payload", err)
	}

	return fetched, nil
}
