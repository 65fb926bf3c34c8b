package criteria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao"
)

func TestMatches(t *testing.T) {
	order := model.NewOrder("INV-1", []string{"a@s.whatsapp.net", "b@s.whatsapp.net"}, "", time.Now())

	testCases := []struct {
		description string
		parameters  []*dao.Parameter
		expected    bool
	}{
		{description: "no parameters", expected: true},
		{description: "status match", parameters: []*dao.Parameter{dao.NewParameter(dao.ParameterStatus, "pending")}, expected: true},
		{description: "status mismatch", parameters: []*dao.Parameter{dao.NewParameter(dao.ParameterStatus, "approved")}, expected: false},
		{description: "status list", parameters: []*dao.Parameter{dao.NewParameter(dao.ParameterStatus, "approved", "pending")}, expected: true},
		{description: "recipient match", parameters: []*dao.Parameter{dao.NewParameter(dao.ParameterRecipient, "b@s.whatsapp.net")}, expected: true},
		{description: "recipient mismatch", parameters: []*dao.Parameter{dao.NewParameter(dao.ParameterRecipient, "c@s.whatsapp.net")}, expected: false},
		{description: "unknown parameter", parameters: []*dao.Parameter{dao.NewParameter("Other", "x")}, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(order, tc.parameters))
		})
	}
}
