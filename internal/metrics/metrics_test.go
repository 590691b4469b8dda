package metrics_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/internal/metrics"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Hooks(t *testing.T) {
	c := metrics.NewCollector(nil)
	v := stratum.New(stratum.WithHooks(c.Hooks()))

	v.ValidateValue("42", schema.Integer)
	v.ValidateValue("4.2", schema.Integer)
	v.ValidateValue("4.2", schema.Integer)
	v.ValidateName(naming.KindRecord, "user id")

	assert.Equal(t, 3, testutil.CollectAndCount(c.Registry(), "stratum_value_checks_total", "stratum_name_checks_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Registry(), "stratum_name_checks_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(c.Registry(), "stratum_value_checks_total"), "one series per tag and outcome")
	assert.InDelta(t, 2, testutil.ToFloat64(c.ValueChecks().WithLabelValues("INTEGER", "invalid")), 0)
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.NewCollector(nil)
	c.ObserveRequest("GET", "/types", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stratum_http_requests_total{method="GET",route="/types",status="200"} 1`)
}

func TestCollector_UnknownTagsShareOneSeries(t *testing.T) {
	c := metrics.NewCollector(nil)
	v := stratum.New(stratum.WithHooks(c.Hooks()))

	for i := 0; i < 1000; i++ {
		v.ValidateValue("x", schema.Tag(fmt.Sprintf("JUNK%d", i)))
	}
	v.ValidateValue("x", schema.Tag("[]JUNK"))

	assert.Equal(t, 1, testutil.CollectAndCount(c.ValueChecks()))
	assert.InDelta(t, 1001, testutil.ToFloat64(c.ValueChecks().WithLabelValues(metrics.UnknownTag, "invalid")), 0)
}

func TestCollector_RequestMethodsBounded(t *testing.T) {
	c := metrics.NewCollector(nil)
	for i := 0; i < 50; i++ {
		c.ObserveRequest(fmt.Sprintf("BREW%d", i), metrics.UnmatchedRoute, 405, time.Millisecond)
	}
	c.ObserveRequest("GET", metrics.UnmatchedRoute, 404, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(c.Registry(), "stratum_http_requests_total"))
}
