package chatapproval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("CA_HOST", "localhost")
	t.Setenv("CA_PORT", "3000")
	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "no expression", input: "plain", expect: "plain"},
		{description: "single", input: "${env.CA_HOST}", expect: "localhost"},
		{description: "embedded", input: "http://${env.CA_HOST}:${env.CA_PORT}/", expect: "http://localhost:3000/"},
		{description: "unset", input: "x${env.CA_MISSING}y", expect: "xy"},
		{description: "unterminated", input: "a${env.CA_HOST", expect: "a${env.CA_HOST"},
		{description: "invalid key", input: "${env.A-B}", expect: "${env.A-B}"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, expandEnv(testCase.input))
		})
	}
}
