package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	MustRegister(registry)

	RepliesTotal.WithLabelValues("recorded").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(RepliesTotal.WithLabelValues("recorded")), 1.0)

	families, err := registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "chatapproval_replies_total")
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("x")))
}
