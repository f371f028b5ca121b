package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfig struct {
	Foo string        `yaml:"foo"`
	Bar string        `yaml:"bar"`
	Sub fakeSubConfig `yaml:"sub"`
}

type fakeSubConfig struct {
	Car int `yaml:"car"`
}

func writeConfig(t *testing.T, s string) string {
	path := filepath.Join(t.TempDir(), "rumour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(s), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		path := writeConfig(t, `foo: val1
bar: val2
sub:
  car: 5`)

		var conf fakeConfig
		assert.NoError(t, Load(&conf, path, false))

		assert.Equal(t, "val1", conf.Foo)
		assert.Equal(t, "val2", conf.Bar)
		assert.Equal(t, 5, conf.Sub.Car)
	})

	t.Run("keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `foo: val1`)

		conf := fakeConfig{Bar: "default", Sub: fakeSubConfig{Car: 3}}
		assert.NoError(t, Load(&conf, path, false))

		assert.Equal(t, "val1", conf.Foo)
		assert.Equal(t, "default", conf.Bar)
		assert.Equal(t, 3, conf.Sub.Car)
	})

	t.Run("expand env", func(t *testing.T) {
		t.Setenv("RUMOUR_VAL1", "val1")
		t.Setenv("RUMOUR_VAL2", "val2")

		path := writeConfig(t, `foo: $RUMOUR_VAL1
bar: ${RUMOUR_VAL2}
sub:
  car: ${RUMOUR_VAL3:5}`)

		var conf fakeConfig
		assert.NoError(t, Load(&conf, path, true))

		assert.Equal(t, "val1", conf.Foo)
		assert.Equal(t, "val2", conf.Bar)
		assert.Equal(t, 5, conf.Sub.Car)
	})

	t.Run("empty path", func(t *testing.T) {
		conf := fakeConfig{Foo: "unchanged"}
		assert.NoError(t, Load(&conf, "", false))
		assert.Equal(t, "unchanged", conf.Foo)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeConfig(t, `unknown: xyz`)

		var conf fakeConfig
		assert.Error(t, Load(&conf, path, false))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, `invalid yaml...`)

		var conf fakeConfig
		assert.Error(t, Load(&conf, path, false))
	})

	t.Run("not found", func(t *testing.T) {
		var conf fakeConfig
		assert.Error(t, Load(&conf, "/a/b/c/notfound", false))
	})
}
