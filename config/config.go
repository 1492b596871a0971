// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 Steadybit GmbH

package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Specification is the configuration specification for the extension. Configuration values can be applied
// through environment variables. Learn more through the documentation of the envconfig package.
// https://github.com/kelseyhightower/envconfig
type Specification struct {
	Port       uint16 `json:"port" split_words:"true" required:"false" default:"8085"`
	HealthPort uint16 `json:"healthPort" split_words:"true" required:"false" default:"8086"`
	// MaxRedirects is applied to probes that do not ask for a bound themselves. 0 keeps redirects unbounded.
	MaxRedirects int `json:"maxRedirects" split_words:"true" required:"false" default:"0"`
}

var (
	Config Specification
)

func ParseConfiguration() {
	err := envconfig.Process("steadybit_extension", &Config)
	if err != nil {
		log.Fatal().Err(err).Msgf("Failed to parse configuration from environment.")
	}
}

func ValidateConfiguration() {
	if err := validate(Config); err != nil {
		log.Fatal().Err(err).Msgf("Invalid configuration.")
	}
}

func validate(spec Specification) error {
	if spec.MaxRedirects < 0 {
		return errors.New("max redirects must not be negative")
	}
	if spec.Port == spec.HealthPort {
		return errors.New("port and health port must differ")
	}
	return nil
}
