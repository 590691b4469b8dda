package domain

import (
	"testing"

	"github.com/aretw0/stratum/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestClusterRef(t *testing.T) {
	ref := ClusterRef{Project: "shop", Collection: "users", Cluster: "profiles"}
	assert.Equal(t, "shop/users/profiles", ref.Key())

	parsed, ok := ParseClusterRef(ref.Key())
	assert.True(t, ok)
	assert.Equal(t, ref, parsed)

	for _, bad := range []string{"", "a/b", "a/b/c/d", "a//c"} {
		_, ok := ParseClusterRef(bad)
		assert.False(t, ok, bad)
	}
}

func TestCluster_Snapshot(t *testing.T) {
	c := sampleCluster()
	snap := c.Snapshot()
	snap.Records[0].Value = "changed"
	assert.Equal(t, "42", c.Records[0].Value, "snapshot must not share records")

	var nilCluster *Cluster
	assert.Nil(t, nilCluster.Snapshot())
}

func TestCluster_Helpers(t *testing.T) {
	c := sampleCluster()
	assert.Equal(t, 1, c.Find("2"))
	assert.Equal(t, -1, c.Find("missing"))
	assert.Equal(t, []string{"age", "joined"}, c.Names("2"))
	assert.Equal(t, schema.Schema{"age": schema.Integer, "email": schema.String, "joined": schema.Date}, c.Schema())
	assert.Equal(t, "2025-01-15", c.Values()["joined"])
	assert.NoError(t, schema.Validate(c.Schema(), c.Values()))
}
