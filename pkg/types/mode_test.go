package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	assert.Equal(t, "insert", ModeInsert.String())
	assert.Equal(t, "update", ModeUpdate.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())

	assert.True(t, ModeInsert.Valid())
	assert.True(t, ModeUpdate.Valid())
	assert.False(t, Mode(-1).Valid())
}
