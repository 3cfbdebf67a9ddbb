package provisioning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Collectors(t *testing.T) {
	t.Parallel()
	m := NewMetrics()

	m.ObservePhase("network", 1500*time.Millisecond)
	m.CountResource("subnet", ActionEnsure)
	m.CountResource("subnet", ActionEnsure)
	m.MarkSuccess(time.Unix(1700000000, 0))

	assert.Equal(t, 1.5, testutil.ToFloat64(m.PhaseDuration.WithLabelValues("network")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resources.WithLabelValues("subnet", ActionEnsure)))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.LastSuccess))

	expected := `
# HELP unifictl_resources_total Resources handled during the run by type and action
# TYPE unifictl_resources_total counter
unifictl_resources_total{action="ensure",type="subnet"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "unifictl_resources_total"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics

	m.ObservePhase("network", time.Second)
	m.CountResource("vpc", ActionDelete)
	m.MarkSuccess(time.Now())
	assert.NoError(t, m.WriteToTextfile("/nonexistent/metrics.prom"))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObservePhase("certificate", 2*time.Second)

	path := filepath.Join(t.TempDir(), "unifictl.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `unifictl_phase_duration_seconds{phase="certificate"} 2`)
	assert.Contains(t, string(data), "unifictl_apply_last_success_timestamp_seconds 0")
}
