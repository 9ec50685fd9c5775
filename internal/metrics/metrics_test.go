package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("hit"))

	ObserveCacheLookup("hit")
	ObserveCacheLookup("hit")

	assert.Equal(t, before+2, testutil.ToFloat64(CacheLookups.WithLabelValues("hit")))
}

func TestLinesScored(t *testing.T) {
	before := testutil.ToFloat64(LinesScored.WithLabelValues("Neutral"))
	LinesScored.WithLabelValues("Neutral").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(LinesScored.WithLabelValues("Neutral")))
}
