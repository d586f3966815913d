package domain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSignedURLCache_ReusesGrant(t *testing.T) {
	storage := newFakeStorage()
	cache := NewSignedURLCache(storage, time.Hour)

	u1, err := cache.DisplayURL(context.Background(), "1/a.jpg")
	if err != nil {
		t.Fatalf("DisplayURL() error = %v", err)
	}
	u2, err := cache.DisplayURL(context.Background(), "1/a.jpg")
	if err != nil {
		t.Fatalf("DisplayURL() error = %v", err)
	}

	if u1 != u2 {
		t.Errorf("urls differ: %q vs %q", u1, u2)
	}
	if storage.signCalls != 1 {
		t.Errorf("signCalls = %d, want 1", storage.signCalls)
	}
}

func TestSignedURLCache_SeparateEntriesPerPath(t *testing.T) {
	storage := newFakeStorage()
	cache := NewSignedURLCache(storage, time.Hour)

	if _, err := cache.DisplayURL(context.Background(), "1/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.DisplayURL(context.Background(), "1/b.jpg"); err != nil {
		t.Fatal(err)
	}

	if storage.signCalls != 2 {
		t.Errorf("signCalls = %d, want 2", storage.signCalls)
	}
}

func TestSignedURLCache_RefreshesNearExpiry(t *testing.T) {
	storage := newFakeStorage()
	cache := NewSignedURLCache(storage, time.Hour)

	clock := time.Now()
	cache.now = func() time.Time { return clock }

	if _, err := cache.DisplayURL(context.Background(), "1/a.jpg"); err != nil {
		t.Fatal(err)
	}

	// inside the safety margin the grant counts as expired
	clock = clock.Add(time.Hour - 10*time.Second)

	if _, err := cache.DisplayURL(context.Background(), "1/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if storage.signCalls != 2 {
		t.Errorf("signCalls = %d, want 2 after expiry", storage.signCalls)
	}
}

func TestSignedURLCache_SignFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.signErr = errors.New("presign refused")
	cache := NewSignedURLCache(storage, time.Hour)

	_, err := cache.DisplayURL(context.Background(), "1/a.jpg")
	if !errors.Is(err, ErrSignedURL) {
		t.Fatalf("DisplayURL() error = %v, want ErrSignedURL", err)
	}
}

func TestSignedURLCache_Invalidate(t *testing.T) {
	storage := newFakeStorage()
	cache := NewSignedURLCache(storage, time.Hour)

	if _, err := cache.DisplayURL(context.Background(), "1/a.jpg"); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("1/a.jpg")
	if _, err := cache.DisplayURL(context.Background(), "1/a.jpg"); err != nil {
		t.Fatal(err)
	}

	if storage.signCalls != 2 {
		t.Errorf("signCalls = %d, want 2 after invalidation", storage.signCalls)
	}
}
