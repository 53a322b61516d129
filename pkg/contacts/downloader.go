package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/snapshot"
)

// Provider is the account-data service the downloader reads from
type Provider interface {
	VerifyIdentity(ctx context.Context) (snapshot.Member, error)
	ResolveUser(ctx context.Context, handle string) (snapshot.Member, error)
	ListFollowers(ctx context.Context, handle string) ([]snapshot.Member, error)
	ListFollowing(ctx context.Context, handle string) ([]snapshot.Member, error)
}

// Store persists a finished snapshot and returns where it went
type Store interface {
	Save(snap *snapshot.Snapshot) (string, error)
}

// Option configures a Downloader
type Option func(*Downloader)

// WithClock overrides the capture clock
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) { d.now = now }
}

// WithProgress registers a callback that receives one line per step
func WithProgress(fn func(msg string)) Option {
	return func(d *Downloader) { d.progress = fn }
}

// Downloader captures a snapshot of an account's followers and following
type Downloader struct {
	provider Provider
	store    Store
	logger   logger.Logger
	now      func() time.Time
	progress func(msg string)
}

// New creates a Downloader
func New(provider Provider, store Store, log logger.Logger, opts ...Option) *Downloader {
	if log == nil {
		log = logger.NewNopLogger()
	}
	d := &Downloader{
		provider: provider,
		store:    store,
		logger:   log.WithField("component", "contacts"),
		now:      time.Now,
		progress: func(string) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NormalizeHandle strips one leading "@". Surrounding whitespace is kept.
func NormalizeHandle(input string) (string, error) {
	handle := strings.TrimPrefix(input, "@")
	if handle == "" {
		return "", errors.Newf(errors.ErrorTypeValidation, "invalid handle %q", input)
	}
	return handle, nil
}

// Download fetches the followers and following of the account named by input
// and saves them as a new snapshot. Any provider failure aborts the download
// before anything is written.
func (d *Downloader) Download(ctx context.Context, input string) (string, error) {
	handle, err := NormalizeHandle(input)
	if err != nil {
		return "", err
	}
	log := d.logger.WithField("handle", handle)

	d.progress("Connecting to Twitter API.")
	me, err := d.provider.VerifyIdentity(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to verify credentials: %w", err)
	}
	d.progress(fmt.Sprintf("Connected to Twitter API as @%s.", me.Handle))

	d.progress(fmt.Sprintf("Retrieving user @%s.", handle))
	subject, err := d.provider.ResolveUser(ctx, handle)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user @%s: %w", handle, err)
	}

	d.progress(fmt.Sprintf("Retrieving 'followers' of @%s.", subject.Handle))
	followers, err := d.provider.ListFollowers(ctx, subject.Handle)
	if err != nil {
		return "", fmt.Errorf("failed to list followers of @%s: %w", subject.Handle, err)
	}

	d.progress(fmt.Sprintf("Retrieving 'following' of @%s.", subject.Handle))
	following, err := d.provider.ListFollowing(ctx, subject.Handle)
	if err != nil {
		return "", fmt.Errorf("failed to list following of @%s: %w", subject.Handle, err)
	}

	d.progress("Writing .xml file.")
	snap := snapshot.New(subject, followers, following, d.now())
	path, err := d.store.Save(snap)
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.LogSnapshot(log, subject.Handle, path, len(followers), len(following))
	d.progress("Finished.")
	return path, nil
}
