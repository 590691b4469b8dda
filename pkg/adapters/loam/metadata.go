package loam

import (
	"fmt"
	"time"

	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/schema"
)

// ClusterMetadata is the frontmatter of a cluster document.
// It uses "mapstructure" tags so Loam can decode the YAML header directly.
type ClusterMetadata struct {
	Project    string           `json:"project" mapstructure:"project"`
	Collection string           `json:"collection" mapstructure:"collection"`
	Cluster    string           `json:"cluster" mapstructure:"cluster"`
	CreatedAt  string           `json:"created_at" mapstructure:"created_at"`
	UpdatedAt  string           `json:"updated_at" mapstructure:"updated_at"`
	Records    []RecordMetadata `json:"records" mapstructure:"records"`
}

// RecordMetadata holds one record. Every field is a string so YAML never
// reinterprets a raw value such as "007" or "true".
type RecordMetadata struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name" mapstructure:"name"`
	Type      string `json:"type" mapstructure:"type"`
	Value     string `json:"value" mapstructure:"value"`
	UpdatedAt string `json:"updated_at" mapstructure:"updated_at"`
}

func (m ClusterMetadata) ref() domain.ClusterRef {
	return domain.ClusterRef{Project: m.Project, Collection: m.Collection, Cluster: m.Cluster}
}

func toMetadata(c *domain.Cluster) ClusterMetadata {
	meta := ClusterMetadata{
		Project:    c.Ref.Project,
		Collection: c.Ref.Collection,
		Cluster:    c.Ref.Cluster,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
		Records:    make([]RecordMetadata, 0, len(c.Records)),
	}
	for _, r := range c.Records {
		meta.Records = append(meta.Records, RecordMetadata{
			ID:        r.ID,
			Name:      r.Name,
			Type:      r.Type.String(),
			Value:     r.Value,
			UpdatedAt: formatTime(r.UpdatedAt),
		})
	}
	return meta
}

func fromMetadata(meta ClusterMetadata) (*domain.Cluster, error) {
	created, err := parseTime(meta.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := parseTime(meta.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	c := &domain.Cluster{
		Ref:       meta.ref(),
		Records:   make([]domain.Record, 0, len(meta.Records)),
		CreatedAt: created,
		UpdatedAt: updated,
	}
	for _, r := range meta.Records {
		at, err := parseTime(r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("record %q: invalid updated_at: %w", r.Name, err)
		}
		c.Records = append(c.Records, domain.Record{
			ID:        r.ID,
			Name:      r.Name,
			Type:      schema.Tag(r.Type),
			Value:     r.Value,
			UpdatedAt: at,
		})
	}
	return c, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
