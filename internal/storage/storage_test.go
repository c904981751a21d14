// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared contract against any driver.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not contain the session key")

	require.NoError(t, s.Set(ctx, SessionKey, "abc-123"))
	v, ok, err := s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", v)

	require.NoError(t, s.Set(ctx, SessionKey, "def-456"))
	v, _, err = s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "def-456", v)

	require.NoError(t, s.Remove(ctx, SessionKey))
	_, ok, err = s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing twice is fine.
	require.NoError(t, s.Remove(ctx, SessionKey))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	_, _, err := s.Get(context.Background(), SessionKey)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := NewStore(DriverFile, WithPath(path))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s1, err := NewStore(DriverFile, WithPath(path))
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, SessionKey, "persisted"))
	require.NoError(t, s1.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	if filepath.Separator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	s2, err := NewStore(DriverFile, WithPath(path))
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(DriverFile, WithPath(path))
	assert.Error(t, err)
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	s, err := NewStore(DriverFile, WithPath(path))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(context.Background(), SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewStore(DriverSQLite, WithPath(path))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := NewStore(DriverSQLite, WithPath(path))
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, SessionKey, "sqlite-id"))
	require.NoError(t, s1.Close())

	s2, err := NewStore(DriverSQLite, WithPath(path))
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sqlite-id", v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("CHATTERM_TEST_REDIS")
	if url == "" {
		t.Skip("CHATTERM_TEST_REDIS not set")
	}

	s, err := NewStore(DriverRedis, WithRedisURL(url), WithRedisPrefix("chatterm:test:"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestNewStore_Errors(t *testing.T) {
	tests := []struct {
		name   string
		driver Driver
		opts   []Option
		want   error
	}{
		{"unknown driver", Driver("etcd"), nil, ErrInvalidDriver},
		{"file without path", DriverFile, nil, ErrInvalidConfig},
		{"sqlite without path", DriverSQLite, nil, ErrInvalidConfig},
		{"redis without url", DriverRedis, nil, ErrInvalidConfig},
		{"redis bad url", DriverRedis, []Option{WithRedisURL("http://nope")}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.driver, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewStore() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"memory", DriverMemory, false},
		{" File ", DriverFile, false},
		{"SQLITE", DriverSQLite, false},
		{"redis", DriverRedis, false},
		{"mongo", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDriver(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDriver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDriver(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
