package loam

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/stratum/pkg/domain"
)

// Store adapts a Loam repository to the ports.ClusterStore interface.
// Each cluster is one Markdown document at "<project>/<collection>/<cluster>.md":
// the records live in the frontmatter and the body is a readable table.
type Store struct {
	Repo *loam.TypedRepository[ClusterMetadata]
}

// New creates a new Loam-backed cluster store.
func New(repo *loam.TypedRepository[ClusterMetadata]) *Store {
	return &Store{Repo: repo}
}

// Open initializes a Loam repository in dir and wraps it.
func Open(dir string) (*Store, error) {
	repo, err := loam.Init(dir, loam.WithVersioning(false))
	if err != nil {
		return nil, fmt.Errorf("failed to init loam repo: %w", err)
	}
	return New(loam.NewTypedRepository[ClusterMetadata](repo)), nil
}

func docID(ref domain.ClusterRef) string {
	return ref.Key() + ".md"
}

// Save writes the cluster document, replacing any previous version.
func (s *Store) Save(ctx context.Context, cluster *domain.Cluster) error {
	err := s.Repo.Save(ctx, &loam.DocumentModel[ClusterMetadata]{
		ID:      docID(cluster.Ref),
		Content: render(cluster),
		Data:    toMetadata(cluster),
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", cluster.Ref, err)
	}
	return nil
}

// Load reads the cluster document.
func (s *Store) Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	doc, err := s.Repo.Get(ctx, docID(ref))
	if err != nil {
		// Loam reports missing documents through its own error types;
		// confirm absence against the listing before translating.
		if ok, lerr := s.exists(ctx, ref); lerr == nil && !ok {
			return nil, domain.ErrClusterNotFound
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", ref, err)
	}

	meta := doc.Data
	if meta.Project == "" {
		meta.Project, meta.Collection, meta.Cluster = ref.Project, ref.Collection, ref.Cluster
	}
	return fromMetadata(meta)
}

// Delete removes the cluster document. Missing documents are ignored.
func (s *Store) Delete(ctx context.Context, ref domain.ClusterRef) error {
	ok, err := s.exists(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := s.Repo.Delete(ctx, docID(ref)); err != nil {
		return fmt.Errorf("loam delete failed for %s: %w", ref, err)
	}
	return nil
}

// List returns every cluster found in the repository.
// Documents without a cluster header fall back to their path.
func (s *Store) List(ctx context.Context) ([]domain.ClusterRef, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[domain.ClusterRef]bool, len(docs))
	refs := make([]domain.ClusterRef, 0, len(docs))
	for _, doc := range docs {
		ref := doc.Data.ref()
		if ref.Project == "" || ref.Collection == "" || ref.Cluster == "" {
			var ok bool
			ref, ok = domain.ParseClusterRef(trimExtension(doc.ID))
			if !ok {
				continue
			}
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Store) exists(ctx context.Context, ref domain.ClusterRef) (bool, error) {
	refs, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range refs {
		if r == ref {
			return true, nil
		}
	}
	return false, nil
}

func trimExtension(id string) string {
	id = strings.ReplaceAll(id, "\\", "/")
	if i := strings.LastIndex(id, "."); i > strings.LastIndex(id, "/") {
		return id[:i]
	}
	return id
}

func render(c *domain.Cluster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Ref.Cluster)
	if len(c.Records) == 0 {
		b.WriteString("_No records._\n")
		return b.String()
	}
	b.WriteString("| Name | Type | Value |\n|---|---|---|\n")
	for _, r := range c.Records {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Name, r.Type, codeSpan(r.Value))
	}
	return b.String()
}

// codeSpan renders v as a single-line inline code span that is safe inside a
// table cell. The fence is one backtick longer than the longest run in v.
// The body is display only; the value itself is kept in the front matter.
func codeSpan(v string) string {
	v = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\r", "↵", "|", "\\|").Replace(v)

	longest, run := 0, 0
	for _, r := range v {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(v, "`") || strings.HasSuffix(v, "`") {
		v = " " + v + " "
	}
	return fence + v + fence
}
