package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/foodorder/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogServiceAddAndList(t *testing.T) {
	t.Parallel()

	repo := &fakeProducts{}
	bus := &fakeBus{}
	svc := NewCatalogService(repo, NewEventPublisher(bus, "shop-events"))
	ctx := context.Background()

	pizza, err := svc.Add(ctx, 1, "Pizza", 9.99)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, "Burger", 5)
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListBySeller(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pizza.ID, mine[0].ID)

	require.Len(t, bus.events, 2)
	assert.Equal(t, "shop-events", bus.events[0].channel)

	var event struct {
		Type string        `json:"type"`
		Data types.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(bus.events[0].data, &event))
	assert.Equal(t, EventProductCreated, event.Type)
	assert.Equal(t, "Pizza", event.Data.Name)
}

func TestCatalogServiceRemoveIsLenient(t *testing.T) {
	t.Parallel()

	repo := &fakeProducts{}
	bus := &fakeBus{}
	svc := NewCatalogService(repo, NewEventPublisher(bus, "shop-events"))
	ctx := context.Background()

	soup, err := svc.Add(ctx, 1, "Soup", 3)
	require.NoError(t, err)

	// Another seller's delete reports success and leaves the row.
	require.NoError(t, svc.Remove(ctx, 2, soup.ID))
	assert.Len(t, repo.products, 1)

	require.NoError(t, svc.Remove(ctx, 1, soup.ID))
	assert.Empty(t, repo.products)

	require.NoError(t, svc.Remove(ctx, 1, soup.ID))
	assert.Equal(t, []string{EventProductCreated, EventProductDeleted}, bus.eventTypes())
}

func TestCatalogServiceWithoutBus(t *testing.T) {
	t.Parallel()

	repo := &fakeProducts{}
	svc := NewCatalogService(repo, nil)

	_, err := svc.Add(context.Background(), 1, "Tea", 2)
	require.NoError(t, err)

	points, err := svc.Analytics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []types.SalesPoint{{Name: "Pizza", OrderCount: 2, TotalRevenue: 20}}, points)
}

func TestCatalogServicePublishFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(&fakeProducts{}, NewEventPublisher(&fakeBus{err: errBoom}, "shop-events"))

	_, err := svc.Add(context.Background(), 1, "Tea", 2)
	assert.NoError(t, err)
}

func TestCatalogServicePropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(&fakeProducts{err: errBoom}, nil)

	_, err := svc.Add(context.Background(), 1, "Tea", 2)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, svc.Remove(context.Background(), 1, 1), errBoom)
}
