package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagehand/internal/catalog"
	"stagehand/internal/testsupport"
)

func TestPublishIfAbsentIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	entry := catalog.Entry{
		Key:         "kitchen_0412",
		Author:      "ana",
		Week:        "week_3",
		Status:      "pending",
		PayloadJSON: `{"author":"ana"}`,
	}

	created, err := store.PublishIfAbsent(ctx, entry)
	if err != nil {
		t.Fatalf("PublishIfAbsent: %v", err)
	}
	if !created {
		t.Fatal("first publish should create")
	}

	entry.Author = "someone-else"
	created, err = store.PublishIfAbsent(ctx, entry)
	if err != nil {
		t.Fatalf("second PublishIfAbsent: %v", err)
	}
	if created {
		t.Fatal("second publish should be a no-op")
	}

	got, err := store.Get(ctx, "kitchen_0412")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Author != "ana" {
		t.Errorf("author = %q, original entry was overwritten", got.Author)
	}
	if got.PublishedAt.IsZero() || time.Since(got.PublishedAt) > time.Minute {
		t.Errorf("published_at = %v", got.PublishedAt)
	}
}

func TestGetMissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	_, err := store.Get(context.Background(), "ghost")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrdersByWeekAuthorKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	seed := []catalog.Entry{
		{Key: "b", Author: "zoe", Week: "week_2"},
		{Key: "a", Author: "ana", Week: "week_1"},
		{Key: "c", Author: "ana", Week: "week_2"},
	}
	for _, entry := range seed {
		if _, err := store.PublishIfAbsent(ctx, entry); err != nil {
			t.Fatalf("seed %s: %v", entry.Key, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d", len(entries))
	}
	order := []string{"a", "c", "b"}
	for i, want := range order {
		if entries[i].Key != want {
			t.Errorf("entries[%d].Key = %q, want %q", i, entries[i].Key, want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.PublishIfAbsent(context.Background(), catalog.Entry{Key: "persist"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenCatalog(t, cfg)
	if _, err := reopened.Get(context.Background(), "persist"); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
