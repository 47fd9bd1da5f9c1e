package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/console/internal/model"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Lamp"},
		{ID: "2", Name: "Desk"},
		{ID: "3", Name: "Chair"},
	}
}

func ids(list []model.Product) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID.String())
	}
	return out
}

func TestProductCache_GetOrLoadCaches(t *testing.T) {
	cache := NewProductCache(time.Minute)
	loads := 0
	load := func(ctx context.Context) ([]model.Product, error) {
		loads++
		return sampleProducts(), nil
	}

	_, err := cache.GetOrLoad(context.Background(), "u1", load)
	require.NoError(t, err)
	list, err := cache.GetOrLoad(context.Background(), "u1", load)
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "Should not load again while cached")
	assert.Len(t, list, 3)

	_, err = cache.GetOrLoad(context.Background(), "u2", load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads, "keys are cached separately")
}

func TestProductCache_Expiry(t *testing.T) {
	cache := NewProductCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }
	loads := 0
	load := func(ctx context.Context) ([]model.Product, error) {
		loads++
		return sampleProducts(), nil
	}

	cache.GetOrLoad(context.Background(), "u1", load)
	now = now.Add(2 * time.Minute)
	cache.GetOrLoad(context.Background(), "u1", load)
	assert.Equal(t, 2, loads)
}

func TestProductCache_SlowLoadDoesNotBlockOtherKeys(t *testing.T) {
	cache := NewProductCache(time.Minute)
	ctx := context.Background()

	_, err := cache.GetOrLoad(ctx, "b", func(ctx context.Context) ([]model.Product, error) {
		return sampleProducts(), nil
	})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	loaded := make(chan error, 1)
	go func() {
		_, err := cache.GetOrLoad(ctx, "a", func(ctx context.Context) ([]model.Product, error) {
			close(started)
			<-release
			return sampleProducts(), nil
		})
		loaded <- err
	}()
	<-started

	read := make(chan []model.Product, 1)
	go func() {
		list, _ := cache.GetOrLoad(ctx, "b", func(ctx context.Context) ([]model.Product, error) {
			return nil, errors.New("should be served from cache")
		})
		read <- list
	}()

	select {
	case list := <-read:
		assert.Len(t, list, 3)
	case <-time.After(time.Second):
		t.Fatal("cached read for key b waited behind the load for key a")
	}

	close(release)
	require.NoError(t, <-loaded)
}

func TestProductCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	cache := NewProductCache(time.Minute)
	ctx := context.Background()

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) ([]model.Product, error) {
		loads.Add(1)
		<-release
		return sampleProducts(), nil
	}

	var wg sync.WaitGroup
	results := make([][]model.Product, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.GetOrLoad(ctx, "u1", load)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, list := range results {
		assert.Equal(t, []string{"1", "2", "3"}, ids(list))
	}

	_, err := cache.GetOrLoad(ctx, "u1", load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load(), "Should not load again while cached")
}

func TestProductCache_LoadErrorIsNotCached(t *testing.T) {
	cache := NewProductCache(time.Minute)
	_, err := cache.GetOrLoad(context.Background(), "u1", func(ctx context.Context) ([]model.Product, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	list, err := cache.GetOrLoad(context.Background(), "u1", func(ctx context.Context) ([]model.Product, error) {
		return sampleProducts(), nil
	})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestProductCache_Mutations(t *testing.T) {
	cache := NewProductCache(time.Minute)
	load := func(ctx context.Context) ([]model.Product, error) { return sampleProducts(), nil }
	noLoad := func(ctx context.Context) ([]model.Product, error) {
		t.Fatal("unexpected load")
		return nil, nil
	}
	ctx := context.Background()
	cache.GetOrLoad(ctx, "u1", load)

	cache.Remove("u1", "2")
	list, _ := cache.GetOrLoad(ctx, "u1", noLoad)
	assert.Equal(t, []string{"1", "3"}, ids(list))

	cache.Prepend("u1", model.Product{ID: "4", Name: "Shelf"})
	list, _ = cache.GetOrLoad(ctx, "u1", noLoad)
	assert.Equal(t, []string{"4", "1", "3"}, ids(list))

	cache.Replace("u1", "1", model.Product{ID: "1", Name: "Lamp XL"})
	list, _ = cache.GetOrLoad(ctx, "u1", noLoad)
	assert.Equal(t, "Lamp XL", list[1].Name)

	cache.Invalidate("u1")
	loaded := false
	cache.GetOrLoad(ctx, "u1", func(ctx context.Context) ([]model.Product, error) {
		loaded = true
		return nil, nil
	})
	assert.True(t, loaded)
}

func TestProductCache_ReturnedListIsACopy(t *testing.T) {
	cache := NewProductCache(time.Minute)
	ctx := context.Background()
	list, _ := cache.GetOrLoad(ctx, "u1", func(ctx context.Context) ([]model.Product, error) { return sampleProducts(), nil })
	list[0].Name = "mutated"

	again, _ := cache.GetOrLoad(ctx, "u1", nil)
	assert.Equal(t, "Lamp", again[0].Name)
}

func TestRemoveProduct(t *testing.T) {
	list := sampleProducts()
	out := RemoveProduct(list, "2")
	assert.Equal(t, []string{"1", "3"}, ids(out))
	assert.Len(t, list, 3, "input is untouched")
	assert.Equal(t, []string{"1", "2", "3"}, ids(RemoveProduct(list, "9")))
}

func TestCatalog_DeleteRemovesOnlyThatID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"success":true,"products":[{"id":"1","name":"Lamp"},{"id":"2","name":"Desk"},{"id":"3","name":"Chair"}]}`))
		case http.MethodDelete:
			assert.Equal(t, "/api/v1/product/2", r.URL.Path)
			w.Write([]byte(`{"success":true,"message":"Product deleted"}`))
		}
	})
	catalog := NewCatalog(NewProductService(client), NewProductCache(time.Minute), "u1")
	ctx := context.Background()

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(list))

	require.NoError(t, catalog.Delete(ctx, "2"))
	list, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(list))
}

func TestCatalog_FailedDeleteKeepsList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"success":true,"products":[{"id":"1","name":"Lamp"},{"id":"2","name":"Desk"}]}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"Not allowed"}`))
		}
	})
	catalog := NewCatalog(NewProductService(client), NewProductCache(time.Minute), "u1")
	ctx := context.Background()

	catalog.List(ctx)
	assert.EqualError(t, catalog.Delete(ctx, "2"), "Not allowed")
	list, _ := catalog.List(ctx)
	assert.Equal(t, []string{"1", "2"}, ids(list))
}
