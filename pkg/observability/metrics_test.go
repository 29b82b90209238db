package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	// Two arcs on the left, one of which the right side rejects.
	a, err := att.Read(strings.NewReader("0\t1\tx\n0\t1\ty\n1\n"))
	require.NoError(t, err)
	b, err := att.Read(strings.NewReader("0\t1\tx\n1\n"))
	require.NoError(t, err)
	glue := []compose.Glue{{Left: "Tape_1", Right: "Tape_1"}}
	ctx := context.Background()

	_, err = compose.Compose(ctx, a, b, glue, compose.WithHooks(m.Hooks()))
	require.NoError(t, err)
	_, err = compose.Compose(ctx, a, b, glue, compose.WithHooks(m.Hooks()), compose.WithMaxStates(1))
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = compose.Compose(cancelled, a, b, glue, compose.WithHooks(m.Hooks()))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compositions.WithLabelValues(observability.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compositions.WithLabelValues(observability.ResultExhausted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compositions.WithLabelValues(observability.ResultCanceled)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Compositions.WithLabelValues(observability.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected))

	count, err := testutil.GatherAndCount(reg, "fsnt_composition_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
