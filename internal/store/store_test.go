package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kletos/internal/config"
	"kletos/internal/model"
)

func TestOpenMemory(t *testing.T) {
	s, err := Open(&config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Accounts.Insert(ctx, &model.Account{Username: "janedoe", Email: "jane@example.com", Phone: "+254712345678"}))
	_, err = s.Accounts.FindByEmail(ctx, "jane@example.com")
	assert.NoError(t, err)

	products, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{StoreDriver: "sqlite"})
	assert.Error(t, err)
}
