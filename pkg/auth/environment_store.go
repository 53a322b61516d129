package auth

import (
	"os"
	"time"

	"followdiff/pkg/config"
)

// DefaultAccountName names credentials that come from the environment
const DefaultAccountName = "default"

// EnvironmentStore reads credentials from FOLLOWDIFF_* environment variables.
// It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment credentials under name, or under
// DefaultAccountName when name is empty. All four variables must be set.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	account := &Account{
		Name:              name,
		APIKey:            os.Getenv(config.EnvPrefix + "API_KEY"),
		APISecretKey:      os.Getenv(config.EnvPrefix + "API_SECRET_KEY"),
		AccessToken:       os.Getenv(config.EnvPrefix + "ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv(config.EnvPrefix + "ACCESS_TOKEN_SECRET"),
		LastModified:      time.Now(),
	}
	if account.Name == "" {
		account.Name = DefaultAccountName
	}

	if account.Validate() != nil {
		return nil, ErrCredentialsNotFound
	}
	return account, nil
}

// List returns a single account if the environment is populated
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
