package apierror

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "account not found", err: Newf(ErrAccountNotFound, "no account"), want: http.StatusNotFound},
		{name: "duplicate address", err: Newf(ErrDuplicateAddress, "exists"), want: http.StatusConflict},
		{name: "duplicate guardian", err: Newf(ErrDuplicateGuardian, "exists"), want: http.StatusConflict},
		{name: "invalid address", err: Newf(ErrInvalidAddress, "too short"), want: http.StatusBadRequest},
		{name: "limit exceeded", err: Newf(ErrLimitExceeded, "over limit"), want: http.StatusBadRequest},
		{name: "insufficient balance", err: Newf(ErrInsufficientBalance, "broke"), want: http.StatusUnprocessableEntity},
		{name: "aborted transfer", err: Newf(ErrTransferAborted, "canceled"), want: http.StatusRequestTimeout},
		{name: "untyped error", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "wrapped api error", err: errors.Wrap(Newf(ErrVaultNotFound, "gone"), "vault lookup"), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToHTTPStatus(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrLimitExceeded, CodeOf(Newf(ErrLimitExceeded, "over")))
	assert.Equal(t, ErrInternalServer, CodeOf(errors.New("boom")))
	assert.Equal(t, ErrRequestNotFound, CodeOf(errors.Wrap(Newf(ErrRequestNotFound, "gone"), "vote")))
}

func TestAPIErrorMessage(t *testing.T) {
	err := NewAPIError(ErrInvalidInput, "bad payload", map[string]string{"field": "amount"})
	assert.Equal(t, "INVALID_INPUT: bad payload", err.Error())
}
