package main

import (
	"context"
	"errors"
	"fmt"

	"followdiff/pkg/auth"
	"followdiff/pkg/config"
	"followdiff/pkg/contacts"
	ferrors "followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/ratelimit"
	"followdiff/pkg/storage"
	"followdiff/pkg/twitter"
	"followdiff/pkg/ui"
)

// credentialSource looks up stored credentials by account name; an empty
// name selects the default account
type credentialSource interface {
	Retrieve(name string) (*auth.Account, error)
	RetrieveDefault() (*auth.Account, error)
}

// resolveCredentials fills cfg from stored credentials when the configuration
// does not already carry all four values
func resolveCredentials(cfg *config.Config, source credentialSource, account string) error {
	if account == "" && cfg.ValidateCredentials() == nil {
		return nil
	}

	if source != nil {
		var stored *auth.Account
		var err error
		if account != "" {
			stored, err = source.Retrieve(account)
		} else {
			stored, err = source.RetrieveDefault()
		}
		switch {
		case err == nil:
			stored.Apply(&cfg.Twitter)
		case account != "":
			return ferrors.Wrap(ferrors.ErrorTypeAuth, err, fmt.Sprintf("no stored credentials for account %q", account))
		case !errors.Is(err, auth.ErrCredentialsNotFound):
			logger.GetLogger().WithError(err).Warn("failed to read stored credentials")
		}
	}

	if err := cfg.ValidateCredentials(); err != nil {
		return ferrors.Wrap(ferrors.ErrorTypeAuth, err,
			"missing Twitter API credentials; run 'followdiff auth login' or set FOLLOWDIFF_API_KEY and friends")
	}
	return nil
}

// newDownloader wires the Twitter client, its rate limiter and the snapshot
// store into a contacts downloader
func newDownloader(cfg *config.Config, source credentialSource, log logger.Logger, progress func(string)) (*contacts.Downloader, error) {
	if err := resolveCredentials(cfg, source, accountName); err != nil {
		return nil, err
	}

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
	client, err := twitter.NewClient(cfg.Twitter, limiter, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewManager(cfg.Output.SnapshotDir)
	if err != nil {
		return nil, err
	}

	return contacts.New(client, store, log, contacts.WithProgress(progress)), nil
}

// credentialManager opens the credential stores, logging instead of failing
// when none is usable so that file and environment configuration still work
func credentialManager() credentialSource {
	manager, err := auth.NewManager()
	if err != nil {
		logger.GetLogger().WithError(err).Debug("credential manager unavailable")
		return nil
	}
	return manager
}

// lazyDownloader builds the real downloader on first use so the menu opens
// without credentials and only the download option asks for them
type lazyDownloader struct {
	build      func() (*contacts.Downloader, error)
	downloader *contacts.Downloader
}

func (l *lazyDownloader) Download(ctx context.Context, input string) (string, error) {
	if l.downloader == nil {
		d, err := l.build()
		if err != nil {
			return "", err
		}
		l.downloader = d
	}
	return l.downloader.Download(ctx, input)
}

func printProgress(msg string) {
	fmt.Println(ui.Dim(msg))
}
