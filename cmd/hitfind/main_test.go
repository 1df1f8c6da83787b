package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourpaljake/hitfinding/internal/cli"
	"github.com/yourpaljake/hitfinding/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
		assert.True(t, strings.HasPrefix(versionString(), version.GetVersion()))
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(versionString())
		assert.NotNil(t, root)
		assert.True(t, strings.HasPrefix(root.Use, "hitfind"))
		for _, flag := range []string{"config", "debug", "output", "plain", "interactive", "skip-version-check"} {
			assert.NotNil(t, root.Flags().Lookup(flag), flag)
		}
	})
}
