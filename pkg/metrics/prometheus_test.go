package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordStage("build", 120, 0.25)
	r.RecordStage("build", 90, 0.1)
	r.RecordError("load")
	r.RecordError("load")

	assert.Equal(t, 90.0, testutil.ToFloat64(r.stageRows.WithLabelValues("build")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("load")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageDuration))
}
