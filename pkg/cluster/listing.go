package cluster

import (
	"context"
	"sort"
	"strings"

	"github.com/aretw0/stratum/pkg/domain"
)

// ListOptions narrows and orders a listing.
type ListOptions struct {
	// Filter keeps names containing the text, ignoring case.
	Filter string
	// Descending reverses the alphabetical order.
	Descending bool
}

// Projects lists the distinct project names.
func (s *Service) Projects(ctx context.Context, opts ListOptions) ([]string, error) {
	return s.distinct(ctx, opts, func(ref domain.ClusterRef) (string, bool) {
		return ref.Project, true
	})
}

// Collections lists the collections of a project.
func (s *Service) Collections(ctx context.Context, project string, opts ListOptions) ([]string, error) {
	return s.distinct(ctx, opts, func(ref domain.ClusterRef) (string, bool) {
		return ref.Collection, ref.Project == project
	})
}

// Clusters lists the clusters of a collection.
func (s *Service) Clusters(ctx context.Context, project, collection string, opts ListOptions) ([]string, error) {
	return s.distinct(ctx, opts, func(ref domain.ClusterRef) (string, bool) {
		return ref.Cluster, ref.Project == project && ref.Collection == collection
	})
}

func (s *Service) distinct(ctx context.Context, opts ListOptions, pick func(domain.ClusterRef) (string, bool)) ([]string, error) {
	refs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(opts.Filter)
	seen := make(map[string]bool)
	names := []string{}
	for _, ref := range refs {
		name, ok := pick(ref)
		if !ok || seen[name] {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a == b {
			a, b = names[i], names[j]
		}
		if opts.Descending {
			return a > b
		}
		return a < b
	})
	return names, nil
}
