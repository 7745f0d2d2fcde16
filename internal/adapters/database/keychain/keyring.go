package keychain

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "cu-events-notifier"

// Storage keeps key-value slots in the operating system keyring
type Storage struct {
	ring keyring.Keyring
}

// Open returns a storage over the first available system keyring backend,
// falling back to an encrypted file under fileDir.
func Open(fileDir, filePassword string) (*Storage, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(filePassword),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStorage(ring), nil
}

func NewStorage(ring keyring.Keyring) *Storage {
	return &Storage{ring: ring}
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting slot %q: %w", key, err)
	}
	return string(item.Data), true, nil
}

func (s *Storage) Set(_ context.Context, key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "Shown event notifications",
	})
	if err != nil {
		return fmt.Errorf("setting slot %q: %w", key, err)
	}
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing slot %q: %w", key, err)
	}
	return nil
}
