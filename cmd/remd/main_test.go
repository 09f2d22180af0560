package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	for _, path := range []string{"", "/tmp/custom-config.yaml"} {
		cfgFile = path
		assert.NotPanics(t, initConfig)
	}
}

func TestRootCmdFlags(t *testing.T) {
	for _, name := range []string{
		"output", "stdout", "force", "dry-run",
		"filter", "max-file-size", "timeout",
		"no-cache", "cache-ttl",
		"github-token", "azdo-pat",
	} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag %s", name)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["version"])
	assert.True(t, names["config"])
}

func TestConfigInitSubcommand(t *testing.T) {
	init := false
	for _, c := range configCmd.Commands() {
		if c.Name() == "init" {
			init = true
			require.NotNil(t, c.Flags().Lookup("force"))
		}
	}
	assert.True(t, init)
}
