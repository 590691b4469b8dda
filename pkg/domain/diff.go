package domain

// ClusterDiff represents the record changes between two versions of a cluster.
// It is designed to be serialized to JSON for partial updates on the client.
type ClusterDiff struct {
	// Cluster is always present to identify the target.
	Cluster string `json:"cluster"`

	// Added and Changed carry the new version of each record.
	Added   []Record `json:"added,omitempty"`
	Changed []Record `json:"changed,omitempty"`

	// Removed lists the IDs of deleted records.
	Removed []string `json:"removed,omitempty"`

	// Dropped is set when the cluster itself was deleted.
	Dropped bool `json:"dropped,omitempty"`
}

// Diff calculates the difference between oldCluster and newCluster.
// A nil oldCluster yields every record as added; a nil newCluster marks the cluster as dropped.
// It returns nil when nothing changed.
func Diff(oldCluster, newCluster *Cluster) *ClusterDiff {
	if oldCluster == nil && newCluster == nil {
		return nil
	}

	if newCluster == nil {
		return &ClusterDiff{Cluster: oldCluster.Ref.Key(), Dropped: true}
	}

	diff := &ClusterDiff{Cluster: newCluster.Ref.Key()}

	previous := make(map[string]Record)
	if oldCluster != nil {
		for _, r := range oldCluster.Records {
			previous[r.ID] = r
		}
	}

	for _, r := range newCluster.Records {
		old, existed := previous[r.ID]
		switch {
		case !existed:
			diff.Added = append(diff.Added, r)
		case old.Name != r.Name || old.Type != r.Type || old.Value != r.Value:
			diff.Changed = append(diff.Changed, r)
		}
		delete(previous, r.ID)
	}

	if oldCluster != nil {
		// Preserve the original order for removals.
		for _, r := range oldCluster.Records {
			if _, gone := previous[r.ID]; gone {
				diff.Removed = append(diff.Removed, r.ID)
			}
		}
	}

	if oldCluster != nil && len(diff.Added) == 0 && len(diff.Changed) == 0 && len(diff.Removed) == 0 {
		return nil
	}

	return diff
}
