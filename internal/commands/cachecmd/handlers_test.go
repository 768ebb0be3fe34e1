package cachecmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

func seededStore(t *testing.T) *cache.MemoryStore {
	t.Helper()
	store := cache.NewMemoryStore()
	ctx := context.Background()
	for _, key := range []string{"imgix:a.jpg", "imgix:b.jpg"} {
		if err := store.Set(ctx, key, interfaces.ImageResolution{CDN: &interfaces.CDNImage{URL: "https://cdn/" + key}}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return store
}

func TestCacheClearCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     CacheClearCommand
		wantErr bool
	}{
		{"empty", CacheClearCommand{}, true},
		{"blank key", CacheClearCommand{Key: "  "}, true},
		{"key", CacheClearCommand{Key: "imgix:a.jpg"}, false},
		{"all", CacheClearCommand{All: true}, false},
		{"both", CacheClearCommand{Key: "imgix:a.jpg", All: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestClearHandlerDeletesSingleKey(t *testing.T) {
	store := seededStore(t)
	handler := NewClearHandler(store, nil)

	if err := handler.Execute(context.Background(), CacheClearCommand{Key: "imgix:a.jpg"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	keys, err := store.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "imgix:b.jpg" {
		t.Fatalf("expected only imgix:b.jpg to remain, got %v", keys)
	}
}

func TestClearHandlerClearsAll(t *testing.T) {
	store := seededStore(t)
	handler := NewClearHandler(store, nil)

	if err := handler.Execute(context.Background(), CacheClearCommand{All: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	keys, _ := store.Keys(context.Background())
	if len(keys) != 0 {
		t.Fatalf("expected empty cache, got %v", keys)
	}
}

func TestClearHandlerWithoutStore(t *testing.T) {
	handler := NewClearHandler(nil, nil)
	err := handler.Execute(context.Background(), CacheClearCommand{All: true})
	if !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
