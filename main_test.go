package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointFilenames(t *testing.T) {
	name := filepath.Join("out", "agent1")

	next, err := checkpointFilenames("step", name)
	require.NoError(t, err)
	assert.Equal(t, name+"-1.bin", next())
	assert.Equal(t, name+"-2.bin", next())

	next, err = checkpointFilenames("time", name)
	require.NoError(t, err)
	timed := next()
	assert.True(t, strings.HasPrefix(timed, name+"-"))
	assert.True(t, strings.HasSuffix(timed, ".bin"))
	assert.NotEqual(t, name+"-1.bin", timed)

	_, err = checkpointFilenames("random", name)
	assert.Error(t, err)
}
