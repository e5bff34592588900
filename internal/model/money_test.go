package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 5.0, RoundCurrency(4.9995))
	assert.Equal(t, 4.99, RoundCurrency(4.994))
	assert.Equal(t, 0.0, RoundCurrency(0))
	assert.Equal(t, 216.0, RoundCurrency(200*1.08))
	assert.Equal(t, 194.4, RoundCurrency(180*1.08))
}
