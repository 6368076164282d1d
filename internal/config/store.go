package config

import "os"

const (
	StoreBackendRedis = "redis"
	StoreBackendFile  = "file"

	defaultStoreKey      = "items"
	defaultStoreFilePath = "data/reminders.json"
)

type StoreConfig struct {
	Backend  string
	Key      string
	FilePath string
}

func LoadStoreConfig() *StoreConfig {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = StoreBackendRedis
	}

	key := os.Getenv("STORE_KEY")
	if key == "" {
		key = defaultStoreKey
	}

	path := os.Getenv("STORE_FILE_PATH")
	if path == "" {
		path = defaultStoreFilePath
	}

	return &StoreConfig{
		Backend:  backend,
		Key:      key,
		FilePath: path,
	}
}

func (c *StoreConfig) UsesRedis() bool {
	return c.Backend == StoreBackendRedis
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendRedis:
		return nil
	case StoreBackendFile:
		if c.FilePath == "" {
			return ErrStoreFilePathMissing
		}
		return nil
	default:
		return ErrInvalidStoreBackend
	}
}
