// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/spf13/viper"

	"code.hybscloud.com/hostio"
)

const (
	DefaultAppID                  = "lothar.com/wormhole/text-or-file-xfer"
	DefaultRendezvousURL          = "wss://mailbox.mw.leastauthority.com/v1"
	DefaultTransitURL             = "wss://relay.winden.app/"
	DefaultPassphraseComponentLen = 2
	DefaultChunkSize              = hostio.DefaultChunkSize
)

// EnvPrefix prefixes every environment override, e.g. HOSTIO_TRANSIT_URL.
const EnvPrefix = "HOSTIO"

// Config is passed through to the transfer engine. hostio itself only
// validates it.
type Config struct {
	AppID                  string `mapstructure:"app_id"`
	RendezvousURL          string `mapstructure:"rendezvous_url"`
	TransitURL             string `mapstructure:"transit_url"`
	PassphraseComponentLen int    `mapstructure:"passphrase_component_len"`
	ChunkSize              int    `mapstructure:"chunk_size"`
	Debug                  bool   `mapstructure:"debug"`
}

// DefaultConfig returns the settings of the public web client.
func DefaultConfig() *Config {
	return &Config{
		AppID:                  DefaultAppID,
		RendezvousURL:          DefaultRendezvousURL,
		TransitURL:             DefaultTransitURL,
		PassphraseComponentLen: DefaultPassphraseComponentLen,
		ChunkSize:              DefaultChunkSize,
	}
}

// LoadConfig reads hostio.yaml from path (a directory, or a file when path
// has an extension), then applies HOSTIO_* environment overrides on top of
// the defaults. A missing file in a directory is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("app_id", d.AppID)
	v.SetDefault("rendezvous_url", d.RendezvousURL)
	v.SetDefault("transit_url", d.TransitURL)
	v.SetDefault("passphrase_component_len", d.PassphraseComponentLen)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path == "" {
		path = "."
	}
	if filepath.Ext(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hostio")
		v.SetConfigType("yaml")
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &hostio.ConfigError{Field: "file", Err: err}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, &hostio.ConfigError{Field: "decode", Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field and returns the first problem as a
// *hostio.ConfigError.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return &hostio.ConfigError{Field: "app_id", Err: errors.New("must not be empty")}
	}
	if _, err := parseEndpoint(c.RendezvousURL, "ws", "wss"); err != nil {
		return &hostio.ConfigError{Field: "rendezvous_url", Err: err}
	}
	if _, err := parseEndpoint(c.TransitURL, "ws", "wss", "tcp"); err != nil {
		return &hostio.ConfigError{Field: "transit_url", Err: err}
	}
	if c.PassphraseComponentLen < 1 {
		return &hostio.ConfigError{Field: "passphrase_component_len", Err: fmt.Errorf("must be at least 1, got %d", c.PassphraseComponentLen)}
	}
	if c.ChunkSize < 1 {
		return &hostio.ConfigError{Field: "chunk_size", Err: fmt.Errorf("must be positive, got %d", c.ChunkSize)}
	}
	return nil
}

// RelayHints returns the relay hints derived from TransitURL.
func (c *Config) RelayHints() ([]RelayHint, error) {
	u, err := parseEndpoint(c.TransitURL, "ws", "wss", "tcp")
	if err != nil {
		return nil, &hostio.ConfigError{Field: "transit_url", Err: err}
	}
	return []RelayHint{{URLs: []*url.URL{u}}}, nil
}

func parseEndpoint(raw string, schemes ...string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return nil, fmt.Errorf("%q has no host", raw)
			}
			return u, nil
		}
	}
	return nil, fmt.Errorf("%q: unsupported scheme %q", raw, u.Scheme)
}
