// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer_test

import (
	"os"
	"path/filepath"
	"testing"

	"code.hybscloud.com/hostio"
	"code.hybscloud.com/hostio/transfer"
)

func TestDefaultConfig_Valid(t *testing.T) {
	c := transfer.DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	if c.PassphraseComponentLen != 2 {
		t.Fatalf("passphrase len: got %d want 2", c.PassphraseComponentLen)
	}
	hints, err := c.RelayHints()
	if err != nil {
		t.Fatalf("RelayHints: %v", err)
	}
	if len(hints) != 1 || len(hints[0].URLs) != 1 || hints[0].URLs[0].Host != "relay.winden.app" {
		t.Fatalf("hints: %+v", hints)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*transfer.Config)
		field string
	}{
		{"empty app id", func(c *transfer.Config) { c.AppID = "" }, "app_id"},
		{"rendezvous not a url", func(c *transfer.Config) { c.RendezvousURL = "::nope" }, "rendezvous_url"},
		{"rendezvous http", func(c *transfer.Config) { c.RendezvousURL = "http://example.com" }, "rendezvous_url"},
		{"transit empty", func(c *transfer.Config) { c.TransitURL = "" }, "transit_url"},
		{"transit no host", func(c *transfer.Config) { c.TransitURL = "wss://" }, "transit_url"},
		{"zero words", func(c *transfer.Config) { c.PassphraseComponentLen = 0 }, "passphrase_component_len"},
		{"zero chunk", func(c *transfer.Config) { c.ChunkSize = 0 }, "chunk_size"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := transfer.DefaultConfig()
			tc.edit(c)
			err := c.Validate()
			if !hostio.IsConfig(err) {
				t.Fatalf("want ConfigError, got %v", err)
			}
			ce := err.(*hostio.ConfigError)
			if ce.Field != tc.field {
				t.Fatalf("field: got %q want %q", ce.Field, tc.field)
			}
		})
	}
}

func TestConfig_TCPTransitAccepted(t *testing.T) {
	c := transfer.DefaultConfig()
	c.TransitURL = "tcp://relay.example.org:4001"
	if err := c.Validate(); err != nil {
		t.Fatalf("tcp transit: %v", err)
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	c, err := transfer.LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *c != *transfer.DefaultConfig() {
		t.Fatalf("got %+v want defaults", *c)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "app_id: example.com/test\n" +
		"transit_url: wss://relay.example.org/\n" +
		"passphrase_component_len: 3\n" +
		"chunk_size: 1024\n"
	if err := os.WriteFile(filepath.Join(dir, "hostio.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOSTIO_CHUNK_SIZE", "2048")

	c, err := transfer.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.AppID != "example.com/test" || c.TransitURL != "wss://relay.example.org/" || c.PassphraseComponentLen != 3 {
		t.Fatalf("file values not applied: %+v", *c)
	}
	if c.ChunkSize != 2048 {
		t.Fatalf("env override: chunk size %d", c.ChunkSize)
	}
	if c.RendezvousURL != transfer.DefaultRendezvousURL {
		t.Fatalf("default not kept: %q", c.RendezvousURL)
	}
}

func TestLoadConfig_InvalidFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("transit_url: ftp://relay.example.org/\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := transfer.LoadConfig(path)
	if !hostio.IsConfig(err) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := transfer.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !hostio.IsConfig(err) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}
