package storage

import (
	"net/url"
	"strings"

	"boscoin.io/govern/lib/errors"
)

const (
	SchemeMemory       = "memory"
	SchemeFile         = "file"
	SchemeBadger       = "badger"
	SchemeBadgerMemory = "badger-memory"
)

// Config is parsed from the storage URI, like `memory://`,
// `file:///var/lib/govern/db`, `badger:///var/lib/govern/db` or
// `badger-memory://`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, errors.StorageUnknownScheme.Clone().SetData("uri", s)
	}

	config := &Config{Scheme: strings.ToLower(parsed.Scheme)}
	switch config.Scheme {
	case SchemeMemory, SchemeBadgerMemory:
	case SchemeFile, SchemeBadger:
		config.Path = parsed.Path
		if len(parsed.Host) > 0 {
			config.Path = parsed.Host + parsed.Path
		}
		if len(config.Path) < 1 {
			return nil, errors.StorageUnknownScheme.Clone().SetData("uri", s)
		}
	default:
		return nil, errors.StorageUnknownScheme.Clone().SetData("uri", s)
	}

	return config, nil
}

func (c Config) String() string {
	if len(c.Path) < 1 {
		return c.Scheme + "://"
	}
	return c.Scheme + "://" + c.Path
}

// NewStorage opens the backend for the config.
func NewStorage(config *Config) (DBBackend, error) {
	switch config.Scheme {
	case SchemeMemory, SchemeFile:
		st := &LevelDBBackend{}
		if err := st.Init(config); err != nil {
			return nil, err
		}
		return st, nil
	case SchemeBadger, SchemeBadgerMemory:
		st := &BadgerBackend{}
		if err := st.Init(config); err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, errors.StorageUnknownScheme.Clone().SetData("scheme", config.Scheme)
	}
}
