package contacts_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/config"
	"followdiff/pkg/contacts"
	"followdiff/pkg/diff"
	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/ratelimit"
	"followdiff/pkg/storage"
	"followdiff/pkg/twitter"
)

// fakeTwitter serves the four REST endpoints from mutable follower lists
type fakeTwitter struct {
	mu        sync.Mutex
	followers []string
	following []string
	requests  int
}

func (f *fakeTwitter) set(followers, following []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers, f.following = followers, following
}

func (f *fakeTwitter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	if !strings.HasPrefix(r.Header.Get("Authorization"), "OAuth ") {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"code":32,"message":"Could not authenticate you."}]}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case twitter.VerifyCredentialsEndpoint:
		fmt.Fprint(w, `{"id":1,"id_str":"1","screen_name":"operator"}`)
	case twitter.UsersShowEndpoint:
		if r.URL.Query().Get("screen_name") != "jack" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"code":50,"message":"User not found."}]}`)
			return
		}
		fmt.Fprint(w, `{"id":12,"id_str":"12","screen_name":"jack"}`)
	case twitter.FollowersListEndpoint:
		writePage(w, f.followers)
	case twitter.FriendsListEndpoint:
		writePage(w, f.following)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writePage(w http.ResponseWriter, handles []string) {
	users := make([]string, len(handles))
	for i, h := range handles {
		users[i] = fmt.Sprintf(`{"id":%d,"id_str":"%d","screen_name":%q}`, 100+i, 100+i, h)
	}
	fmt.Fprintf(w, `{"users":[%s],"next_cursor":0,"previous_cursor":0}`, strings.Join(users, ","))
}

func newPipeline(t *testing.T, baseURL, dir string, now *time.Time) *contacts.Downloader {
	t.Helper()

	cfg := config.DefaultConfig().Twitter
	cfg.BaseURL = baseURL
	cfg.APIKey, cfg.APISecretKey = "key", "secret"
	cfg.AccessToken, cfg.AccessTokenSecret = "token", "token-secret"

	log := logger.NewTestLogger()
	client, err := twitter.NewClient(cfg, ratelimit.Unlimited(), log)
	require.NoError(t, err)

	store, err := storage.NewManager(dir)
	require.NoError(t, err)

	return contacts.New(client, store, log, contacts.WithClock(func() time.Time { return *now }))
}

func TestDownloadTwiceThenCompare(t *testing.T) {
	fake := &fakeTwitter{}
	server := httptest.NewServer(fake)
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "data")
	now := time.Date(2024, time.July, 1, 9, 5, 3, 0, time.Local)
	d := newPipeline(t, server.URL, dir, &now)

	fake.set([]string{"alice", "bob", "carol"}, []string{"dan"})
	first, err := d.Download(context.Background(), "@jack")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jack__1_7_2024__9_5_3.xml"), first)

	now = now.Add(24 * time.Hour)
	fake.set([]string{"alice", "carol", "erin"}, []string{"dan", "frank"})
	second, err := d.Download(context.Background(), "jack")
	require.NoError(t, err)

	store, err := storage.NewManager(dir)
	require.NoError(t, err)
	latest, err := store.Latest("jack", 2)
	require.NoError(t, err)
	assert.Equal(t, first, latest[0].Path)
	assert.Equal(t, second, latest[1].Path)

	result, err := diff.Compare(first, second)
	require.NoError(t, err)
	assert.Equal(t, []string{"@bob"}, result.Unfollows.Sorted())
	assert.Equal(t, []string{"@erin"}, result.NewFollowers.Sorted())
	assert.Empty(t, result.Unfollowing.Sorted())
	assert.Equal(t, []string{"@frank"}, result.NewFollowing.Sorted())
	assert.Empty(t, result.Warnings)
}

func TestDownloadUnknownUserWritesNothing(t *testing.T) {
	server := httptest.NewServer(&fakeTwitter{})
	defer server.Close()

	dir := t.TempDir()
	now := time.Now()
	d := newPipeline(t, server.URL, dir, &now)

	_, err := d.Download(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "User not found.")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
