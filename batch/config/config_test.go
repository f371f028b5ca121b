package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		Name   string
		Update func(conf *Config)
		Valid  bool
	}{
		{"default", func(_ *Config) {}, true},
		{"cascade", func(conf *Config) { conf.RoundMode = "cascade" }, true},
		{"zero max rounds", func(conf *Config) { conf.MaxRounds = 0 }, false},
		{"zero max nodes", func(conf *Config) { conf.MaxNodes = 0 }, false},
		{"zero workers", func(conf *Config) { conf.Workers = 0 }, false},
		{"unknown round mode", func(conf *Config) { conf.RoundMode = "foo" }, false},
		{"missing log level", func(conf *Config) { conf.Log.Level = "" }, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			conf := Default()
			test.Update(conf)
			if test.Valid {
				assert.NoError(t, conf.Validate())
			} else {
				assert.Error(t, conf.Validate())
			}
		})
	}
}

func TestConfig_RegisterFlags(t *testing.T) {
	conf := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	conf.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--seed", "12",
		"--max-rounds", "50",
		"--max-nodes", "200",
		"--workers", "3",
		"--round-mode", "cascade",
		"--trace.path", "trace.jsonl",
		"--metrics.path", "metrics.prom",
		"--log.level", "debug",
		"--log.subsystems", "simulation,batch",
	}))

	assert.Equal(t, uint64(12), conf.Seed)
	assert.Equal(t, 50, conf.MaxRounds)
	assert.Equal(t, 200, conf.MaxNodes)
	assert.Equal(t, 3, conf.Workers)
	assert.Equal(t, "cascade", conf.RoundMode)
	assert.Equal(t, "trace.jsonl", conf.Trace.Path)
	assert.Equal(t, "metrics.prom", conf.Metrics.Path)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, []string{"simulation", "batch"}, conf.Log.Subsystems)
}
