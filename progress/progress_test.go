package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/chatapproval/model"
)

func TestOf(t *testing.T) {
	newOrder := func(states ...model.State) *model.Order {
		keys := make([]string, len(states))
		for i := range states {
			keys[i] = string(rune('a'+i)) + "@s.whatsapp.net"
		}
		anOrder := model.NewOrder("INV-1", keys, "", time.Now())
		for i, state := range states {
			anOrder.Recipients[keys[i]].State = state
		}
		return anOrder
	}
	testCases := []struct {
		description string
		order       *model.Order
		expect      Progress
		done        bool
		summary     string
	}{
		{description: "nil order", expect: Progress{}, summary: "0/0 responded (0 approved, 0 rejected)"},
		{
			description: "all pending",
			order:       newOrder(model.StateUnanswered, model.StateUnanswered),
			expect:      Progress{Total: 2, Pending: 2},
			summary:     "0/2 responded (0 approved, 0 rejected)",
		},
		{
			description: "partial",
			order:       newOrder(model.StateApproved, model.StateUnanswered, model.StateRejected),
			expect:      Progress{Total: 3, Approved: 1, Rejected: 1, Pending: 1},
			summary:     "2/3 responded (1 approved, 1 rejected)",
		},
		{
			description: "done",
			order:       newOrder(model.StateApproved, model.StateApproved),
			expect:      Progress{Total: 2, Approved: 2},
			done:        true,
			summary:     "2/2 responded (2 approved, 0 rejected)",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual := Of(testCase.order)
			assert.Equal(t, testCase.expect, actual)
			assert.Equal(t, testCase.done, actual.Done())
			assert.Equal(t, testCase.summary, actual.String())
		})
	}
}
