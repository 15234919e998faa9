package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRootLogger(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() {
		log.Logger = saved
		verbose = false
	})

	verbose = false
	rootCmd.PersistentPreRun(rootCmd, nil)
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	verbose = true
	rootCmd.PersistentPreRun(rootCmd, nil)
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}
