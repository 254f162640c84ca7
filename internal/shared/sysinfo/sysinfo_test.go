package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapture(t *testing.T) {
	snap := Capture("/definitely/not/a/mount")

	assert.False(t, snap.CapturedAt.IsZero())
	assert.Greater(t, snap.Goroutines, 0)
	assert.Greater(t, snap.HeapAllocBytes, uint64(0))
	assert.NotEmpty(t, snap.Uptime)
}
