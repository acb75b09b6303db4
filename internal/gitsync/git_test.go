package gitsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBatchSyncDisabled(t *testing.T) {
	m := New(t.TempDir(), "main", false)

	ran := false
	err := m.WithBatchSync(func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithBatchSyncReturnsOpError(t *testing.T) {
	m := New(t.TempDir(), "main", false)
	sentinel := errors.New("batch failed")

	err := m.WithBatchSync(func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestWithBatchSyncEnabledSurvivesMissingRemote(t *testing.T) {
	// Not a git repository at all; pull and push both fail and are only
	// logged, so the batch result still comes back clean.
	m := New(t.TempDir(), "main", true)

	ran := false
	err := m.WithBatchSync(func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}
