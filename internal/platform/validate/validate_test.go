// Copyright (c) 2026 Novelshelf. All rights reserved.
// Author: seojin.park.dev@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojinpark/novelshelf/internal/platform/apperr"
	"github.com/seojinpark/novelshelf/internal/platform/validate"
)

/*
TestValidator_Passes verifies that a fully valid chain yields no error.
*/
func TestValidator_Passes(t *testing.T) {
	v := &validate.Validator{}
	v.Required("title", "전지적 독자 시점").
		Range("star", 8, 1, 10).
		Positive("novel_id", 1).
		Email("email", "reader@novelshelf.app")

	assert.NoError(t, v.Err())
	assert.False(t, v.HasErrors())
}

/*
TestValidator_StarBounds verifies the 1–10 star rating rule at its edges.
*/
func TestValidator_StarBounds(t *testing.T) {
	cases := []struct {
		name  string
		star  int
		valid bool
	}{
		{"below minimum", 0, false},
		{"minimum", 1, true},
		{"maximum", 10, true},
		{"above maximum", 11, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Range("star", tc.star, 1, 10)

			if tc.valid {
				assert.NoError(t, v.Err())
			} else {
				assert.Error(t, v.Err())
			}
		})
	}
}

/*
TestValidator_CollectsAllFailures verifies that every failed rule is reported
as its own field error within a single VALIDATION_ERROR.
*/
func TestValidator_CollectsAllFailures(t *testing.T) {
	v := &validate.Validator{}
	v.Required("content", "  ").
		Range("star", 0, 1, 10).
		OneOf("category", "sci_fi", "fantasy", "wuxia", "romance")

	err := v.Err()
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Len(t, appError.Details, 3)
}

/*
TestValidator_Custom verifies the conditional custom rule helper.
*/
func TestValidator_Custom(t *testing.T) {
	v := &validate.Validator{}
	v.Custom("chapter_no", -1 < 0, "Chapter number cannot be negative")

	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, "chapter_no", apperr.As(err).Details[0].Field)
}
