package config

import "errors"

// ValidateForRun checks the settings the server needs before wiring anything.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Store.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Store.UsesRedis() {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cfg.Delivery.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
