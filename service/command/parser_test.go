package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/chatapproval/model"
)

func TestParse(t *testing.T) {
	reason := func(s string) *string { return &s }
	testCases := []struct {
		description string
		input       string
		expected    *model.Intent
		shouldError bool
	}{
		{
			description: "approve",
			input:       "APPROVE INV-1",
			expected:    &model.Intent{Action: model.ActionApprove, OrderID: "INV-1"},
		},
		{
			description: "lower case action keeps id case",
			input:       "  approve inv-1  ",
			expected:    &model.Intent{Action: model.ActionApprove, OrderID: "inv-1"},
		},
		{
			description: "reject with reason",
			input:       "REJECT INV-2 wrong dates",
			expected:    &model.Intent{Action: model.ActionReject, OrderID: "INV-2", Reason: reason("wrong dates")},
		},
		{
			description: "mixed case reject without reason",
			input:       "Reject INV-2",
			expected:    &model.Intent{Action: model.ActionReject, OrderID: "INV-2"},
		},
		{
			description: "reason limited to the first line",
			input:       "REJECT INV-3 too expensive\nsecond line",
			expected:    &model.Intent{Action: model.ActionReject, OrderID: "INV-3", Reason: reason("too expensive")},
		},
		{
			description: "tab separated",
			input:       "APPROVE\tINV-4",
			expected:    &model.Intent{Action: model.ActionApprove, OrderID: "INV-4"},
		},
		{
			description: "approve with trailing text",
			input:       "APPROVE INV-5 looks good",
			expected:    &model.Intent{Action: model.ActionApprove, OrderID: "INV-5", Reason: reason("looks good")},
		},
		{description: "greeting", input: "HELLO", shouldError: true},
		{description: "empty", input: "   ", shouldError: true},
		{description: "missing order id", input: "APPROVE", shouldError: true},
		{description: "keyword prefix", input: "APPROVED INV-1", shouldError: true},
		{description: "keyword glued to id", input: "APPROVE-INV-1", shouldError: true},
		{description: "leading text", input: "please APPROVE INV-1", shouldError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := Parse(tc.input)
			if tc.shouldError {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnrecognized))
				assert.Nil(t, actual)
				return
			}
			assert.NoError(t, err)
			assert.EqualValues(t, tc.expected, actual)
		})
	}
}
