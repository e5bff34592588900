package validator

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type idPayload struct {
	ID uuid.UUID `validate:"uuid_required"`
}

type amountPayload struct {
	Value float64 `validate:"amount,gte=0"`
}

func TestUUIDRequired(t *testing.T) {
	assert.Empty(t, ValidateStruct(&idPayload{ID: uuid.New()}))

	errs := ValidateStruct(&idPayload{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "uuid_required", errs[0].Tag)
}

func TestAmountRejectsNonFinite(t *testing.T) {
	assert.Empty(t, ValidateStruct(&amountPayload{Value: 19.99}))
	assert.Empty(t, ValidateStruct(&amountPayload{Value: 0}))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		errs := ValidateStruct(&amountPayload{Value: v})
		assert.NotEmpty(t, errs)
	}
}
