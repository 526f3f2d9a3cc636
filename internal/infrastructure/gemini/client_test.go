package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, "", "")
	assert.Error(t, err)

	client, err := NewClient(ctx, "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())

	client, err = NewClient(ctx, "test-key", "gemini-2.5-pro")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", client.Model())
}
