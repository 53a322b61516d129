package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/auth"
	"followdiff/pkg/config"
	"followdiff/pkg/contacts"
	"followdiff/pkg/errors"
	"followdiff/pkg/snapshot"
)

func storedAccount(name string) *auth.Account {
	return &auth.Account{
		Name:              name,
		APIKey:            "stored_key",
		APISecretKey:      "stored_secret",
		AccessToken:       "stored_token",
		AccessTokenSecret: "stored_token_secret",
	}
}

func TestResolveCredentialsKeepsConfiguredValues(t *testing.T) {
	cfg := exampleConfig()
	cfg.Twitter.APIKey = "k"
	cfg.Twitter.APISecretKey = "s"
	cfg.Twitter.AccessToken = "t"
	cfg.Twitter.AccessTokenSecret = "ts"

	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(storedAccount("default")))

	require.NoError(t, resolveCredentials(cfg, manager, ""))
	assert.Equal(t, "k", cfg.Twitter.APIKey)
}

func TestResolveCredentialsFillsPlaceholders(t *testing.T) {
	cfg := exampleConfig()
	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(storedAccount("default")))

	require.NoError(t, resolveCredentials(cfg, manager, ""))
	assert.Equal(t, "stored_key", cfg.Twitter.APIKey)
	assert.Equal(t, "stored_token_secret", cfg.Twitter.AccessTokenSecret)
}

func TestResolveCredentialsNamedAccount(t *testing.T) {
	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(storedAccount("work")))

	cfg := config.DefaultConfig()
	require.NoError(t, resolveCredentials(cfg, manager, "work"))
	assert.Equal(t, "stored_token", cfg.Twitter.AccessToken)

	err := resolveCredentials(config.DefaultConfig(), manager, "missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
	assert.ErrorContains(t, err, `no stored credentials for account "missing"`)
}

func TestResolveCredentialsMissing(t *testing.T) {
	manager, _ := auth.NewMockManager()

	err := resolveCredentials(config.DefaultConfig(), manager, "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
	assert.ErrorContains(t, err, "followdiff auth login")

	err = resolveCredentials(config.DefaultConfig(), nil, "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
}

func TestComparePathsExplicit(t *testing.T) {
	oldPath, newPath, err := comparePaths("unused", "", []string{"a.xml", "b.xml"})
	require.NoError(t, err)
	assert.Equal(t, "a.xml", oldPath)
	assert.Equal(t, "b.xml", newPath)
}

func TestComparePathsLatest(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for day := 1; day <= 3; day++ {
		snap := snapshot.New(snapshot.Member{Handle: "jack", ID: 12}, nil, nil,
			time.Date(2024, time.July, day, 10, 0, 0, 0, time.Local))
		path, err := snapshot.Write(dir, snap)
		require.NoError(t, err)
		paths = append(paths, path)
	}

	oldPath, newPath, err := comparePaths(dir, "@jack", nil)
	require.NoError(t, err)
	assert.Equal(t, paths[1], oldPath)
	assert.Equal(t, paths[2], newPath)

	_, _, err = comparePaths(dir, "nobody", nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestSnapshotOrderingCaveatInHelp(t *testing.T) {
	assert.Contains(t, listCmd.Long, "daylight saving time")
	assert.Contains(t, compareCmd.Long, "daylight saving time")
	assert.Contains(t, compareCmd.Long, "pass both paths")
}

func TestLazyDownloaderReportsBuildError(t *testing.T) {
	calls := 0
	l := &lazyDownloader{build: func() (*contacts.Downloader, error) {
		calls++
		return nil, errors.New(errors.ErrorTypeAuth, "missing Twitter API credentials")
	}}

	_, err := l.Download(context.Background(), "jack")
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
	_, _ = l.Download(context.Background(), "jack")
	assert.Equal(t, 2, calls)
}

func TestCheckEnvironment(t *testing.T) {
	cfg := exampleConfig()
	cfg.Output.SnapshotDir = t.TempDir()

	problems, warnings := checkEnvironment(cfg)
	assert.Empty(t, problems)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "credentials not configured")
}

func TestExampleConfigIsValid(t *testing.T) {
	cfg := exampleConfig()
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateCredentials())
}
