package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_MessagesAndWrapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "parse cancelled", err: ErrParseCancelled, expectedMsg: "parse cancelled"},
		{name: "parse timeout", err: ErrParseTimeout, expectedMsg: "parse timed out"},
		{name: "source too large", err: ErrSourceTooLarge, expectedMsg: "source exceeds maximum size"},
		{name: "nil language", err: ErrNilLanguage, expectedMsg: "language descriptor is nil"},
		{name: "invalid edit", err: ErrInvalidEdit, expectedMsg: "invalid edit"},
		{name: "nil tree", err: ErrNilTree, expectedMsg: "tree is nil"},
		{name: "invalid input", err: ErrInvalidInput, expectedMsg: "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.expectedMsg)

			wrapped := fmt.Errorf("parsing main.uc: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.err)
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrParseCancelled, ErrParseTimeout, ErrSourceTooLarge, ErrNilLanguage,
		ErrInvalidEdit, ErrNilTree, ErrInvalidInput,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
