package domain

import (
	"strings"
	"time"

	"github.com/aretw0/stratum/pkg/schema"
)

// ClusterRef identifies a cluster by its position in the hierarchy.
type ClusterRef struct {
	Project    string `json:"project"`
	Collection string `json:"collection"`
	Cluster    string `json:"cluster"`
}

// Key returns the "project/collection/cluster" path of the reference.
func (r ClusterRef) Key() string {
	return r.Project + "/" + r.Collection + "/" + r.Cluster
}

func (r ClusterRef) String() string { return r.Key() }

// ParseClusterRef splits a key produced by ClusterRef.Key.
func ParseClusterRef(key string) (ClusterRef, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ClusterRef{}, false
	}
	return ClusterRef{Project: parts[0], Collection: parts[1], Cluster: parts[2]}, true
}

// Record is one row of a cluster: a named value with a declared type.
type Record struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      schema.Tag `json:"type"`
	Value     string     `json:"value"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Cluster is the unit of persistence.
type Cluster struct {
	Ref       ClusterRef `json:"ref"`
	Records   []Record   `json:"records"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCluster creates an empty cluster.
func NewCluster(ref ClusterRef, now time.Time) *Cluster {
	return &Cluster{
		Ref:       ref,
		Records:   []Record{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a deep copy, so callers can mutate it freely.
func (c *Cluster) Snapshot() *Cluster {
	if c == nil {
		return nil
	}
	out := *c
	out.Records = make([]Record, len(c.Records))
	copy(out.Records, c.Records)
	return &out
}

// Find returns the index of the record with the given ID, or -1.
func (c *Cluster) Find(id string) int {
	for i, r := range c.Records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Names returns the record names, skipping the record with the given ID.
func (c *Cluster) Names(exceptID string) []string {
	names := make([]string, 0, len(c.Records))
	for _, r := range c.Records {
		if r.ID != exceptID {
			names = append(names, r.Name)
		}
	}
	return names
}

// Schema returns the declared types keyed by record name.
func (c *Cluster) Schema() schema.Schema {
	s := make(schema.Schema, len(c.Records))
	for _, r := range c.Records {
		s[r.Name] = r.Type
	}
	return s
}

// Values returns the raw values keyed by record name.
func (c *Cluster) Values() map[string]string {
	v := make(map[string]string, len(c.Records))
	for _, r := range c.Records {
		v[r.Name] = r.Value
	}
	return v
}
