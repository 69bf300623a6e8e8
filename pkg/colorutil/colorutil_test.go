package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/colornames"
)

func TestClusterColor(t *testing.T) {
	assert.Equal(t, Palette[0], ClusterColor(0))
	assert.Equal(t, Palette[1], ClusterColor(1+len(Palette)))
	assert.Equal(t, Unassigned, ClusterColor(-1))
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(colornames.White, 128)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(128), c.R)

	assert.Equal(t, colornames.Red, WithAlpha(colornames.Red, 255))
}
