// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package novel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/core/novel"
	"github.com/seojinpark/novelshelf/internal/platform/apperr"
)

func newRegistrationService(fetcher *fakeFetcher) (*novel.Service, *fakeNovelRepo) {
	novels := catalogueWith()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return novel.NewService(novels, newFakeMemoRepo(), fetcher, logger), novels
}

// # Novel Registration

/*
TestCreateNovel_PersistsFetchedMetadata verifies the happy path: metadata from
the fetch service is persisted with a generated slug and the platform column set.
*/
func TestCreateNovel_PersistsFetchedMetadata(t *testing.T) {
	fetcher := &fakeFetcher{result: &novel.FetchedNovel{
		Title:    "Omniscient Reader",
		Author:   "Sing Shong",
		Category: novel.CategoryModernFantasy,
	}}
	service, novels := newRegistrationService(fetcher)

	record, err := service.CreateNovel(context.Background(), novel.CreateCommand{
		ExternalID: "12345",
		Platform:   novel.PlatformMunpia,
	})
	require.NoError(t, err)

	// 1. Identity assigned and record stored
	assert.NotZero(t, record.ID)
	assert.Len(t, novels.novels, 1)

	// 2. Platform identifier lands in the matching column
	require.NotNil(t, record.MunpiaID)
	assert.Equal(t, "12345", *record.MunpiaID)
	assert.Nil(t, record.RidiID)

	// 3. Slug derived from the fetched title
	assert.Equal(t, "omniscient-reader", record.Slug)
}

/*
TestCreateNovel_DerivesIDFromURL verifies the identifier falls back to the
URL's last path segment, keeping only digits for Ridi URLs.
*/
func TestCreateNovel_DerivesIDFromURL(t *testing.T) {
	fetcher := &fakeFetcher{result: &novel.FetchedNovel{Title: "t", Category: novel.CategoryFantasy}}
	service, _ := newRegistrationService(fetcher)

	record, err := service.CreateNovel(context.Background(), novel.CreateCommand{
		URL:      "https://ridibooks.com/books/425112969",
		Platform: novel.PlatformRidi,
	})
	require.NoError(t, err)

	require.NotNil(t, record.RidiID)
	assert.Equal(t, "425112969", *record.RidiID)
}

/*
TestCreateNovel_RequiresReference verifies a command carrying neither an
identifier nor a URL is rejected.
*/
func TestCreateNovel_RequiresReference(t *testing.T) {
	service, _ := newRegistrationService(&fakeFetcher{})

	_, err := service.CreateNovel(context.Background(), novel.CreateCommand{
		Platform: novel.PlatformKakao,
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

/*
TestCreateNovel_RejectsUnknownPlatform verifies the platform enum is validated
before any upstream call.
*/
func TestCreateNovel_RejectsUnknownPlatform(t *testing.T) {
	service, _ := newRegistrationService(&fakeFetcher{})

	_, err := service.CreateNovel(context.Background(), novel.CreateCommand{
		ExternalID: "1",
		Platform:   novel.Platform("webtoon"),
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

/*
TestCreateNovel_PropagatesUpstreamErrors verifies fetch-service failures reach
the caller unchanged.
*/
func TestCreateNovel_PropagatesUpstreamErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: apperr.NotFound("Novel source")}
	service, _ := newRegistrationService(fetcher)

	_, err := service.CreateNovel(context.Background(), novel.CreateCommand{
		ExternalID: "1",
		Platform:   novel.PlatformSeries,
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Catalogue Filtering

/*
TestListNovels_RejectsUnknownEnums verifies filter enums are validated before
the repository is consulted.
*/
func TestListNovels_RejectsUnknownEnums(t *testing.T) {
	service, _ := newRegistrationService(&fakeFetcher{})

	cases := []novel.Filter{
		{Category: novel.Category("horror")},
		{FilterBy: novel.FilterBy("translator")},
		{OrderBy: novel.OrderBy("view_count")},
	}

	for _, filter := range cases {
		_, _, err := service.ListNovels(context.Background(), filter, 20, 0)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	}
}

/*
TestListNovels_AcceptsValidFilter verifies a fully-populated valid filter
passes validation.
*/
func TestListNovels_AcceptsValidFilter(t *testing.T) {
	service, _ := newRegistrationService(&fakeFetcher{})

	_, _, err := service.ListNovels(context.Background(), novel.Filter{
		Query:    "Fan",
		FilterBy: novel.FilterByTitle,
		Category: novel.CategoryFantasy,
		OrderBy:  novel.OrderByLastUpdatedAt,
	}, 20, 0)

	assert.NoError(t, err)
}
