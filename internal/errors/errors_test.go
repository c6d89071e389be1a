package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesInnerCode(t *testing.T) {
	inner := ResourceExhausted("training budget exhausted after 3/50 epochs")
	wrapped := Wrap(inner, "training failed")

	assert.Equal(t, CodeResourceExhausted, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeResourceExhausted))
	assert.Contains(t, wrapped.Error(), "training failed")
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrapPlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("disk full"), "archive write failed")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
}

func TestWrapCodeOverridesInnerCode(t *testing.T) {
	inner := InvalidInput("ratio out of range")
	wrapped := WrapCode(inner, CodeInvalidParams, "split rejected")

	assert.Equal(t, CodeInvalidParams, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, WrapCode(nil, CodeDatasetError, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestGetCodeUnknownForForeignError(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, HasCode(stderrors.New("plain"), CodeDatasetError))
}

func TestConstructorCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code string
	}{
		{DatasetError("bad row"), CodeDatasetError},
		{DatasetErrorf("row %d malformed", 7), CodeDatasetError},
		{UnknownMethod("stat_marsupial"), CodeUnknownMethod},
		{InvalidParams("epochs must be an integer"), CodeInvalidParams},
		{ResourceExhausted("budget spent"), CodeResourceExhausted},
		{ScoreUnavailable("formal_regex"), CodeScoreUnavailable},
		{ConfigInvalid("PORT not numeric"), CodeConfigInvalid},
		{DatabaseError("connection refused"), CodeDatabaseError},
		{InvalidInput("empty body"), CodeInvalidInput},
		{InternalError("prediction count mismatch"), CodeInternalError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code, tc.err.Message)
	}
}
