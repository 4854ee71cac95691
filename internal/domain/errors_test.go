package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{ErrUnauthenticated, CodeUnauthenticated},
		{fmt.Errorf("ctx: %w", ErrForbidden), CodeForbidden},
		{ErrTenantLocked, CodeTenantLocked},
		{Invalid("items", "vacío"), CodeValidation},
		{ErrNotFound, CodeNotFound},
		{&RateLimitError{RetryAfter: time.Second}, CodeRateLimited},
		{ErrGeofenceViolation, CodeGeofenceViolation},
		{&InsufficientStockError{ProductID: "p", Requested: 2, Available: 1}, CodeInsufficientStock},
		{ErrDuplicate, CodeConflict},
		{ErrTxConflict, CodeConflict},
		{errors.New("boom"), CodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CodeOf(tc.err), tc.err.Error())
	}
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestErroresTipados_Unwrap(t *testing.T) {
	var rl *RateLimitError
	err := fmt.Errorf("gateway: %w", &RateLimitError{RetryAfter: 3 * time.Second})
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter)

	var ve *ValidationError
	assert.True(t, errors.As(Invalid("qty", "debe ser positivo"), &ve))
	assert.Equal(t, "qty: debe ser positivo", ve.Error())

	assert.True(t, errors.Is(ErrTxConflict, ErrConflict))
}
