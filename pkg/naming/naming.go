// Package naming validates identifiers for projects, collections, clusters and records.
//
// Each kind of entity has its own Policy. The ceilings are configuration: record names
// default to 64 characters while the dashboard forms for clusters, collections and
// projects default to 32.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/stratum/pkg/schema"
)

// Kind identifies the entity a name belongs to.
type Kind string

const (
	KindRecord     Kind = "record"
	KindCluster    Kind = "cluster"
	KindCollection Kind = "collection"
	KindProject    Kind = "project"
)

// Default ceilings.
const (
	DefaultRecordMaxLength = 64
	DefaultFormMaxLength   = 32
)

var allowed = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var reserved = []string{"null", "true", "false", "undefined"}

// Policy is the rule set for one kind of name.
type Policy struct {
	// Subject prefixes every message ("Record" -> "Record name is required").
	Subject string
	// MaxLength is the ceiling in characters.
	MaxLength int
	// SpacesFirst reports spaces before the character-set rule so the user sees the
	// more specific message.
	SpacesFirst bool
}

// RecordPolicy is the policy applied by ValidateName.
var RecordPolicy = Policy{Subject: "Record", MaxLength: DefaultRecordMaxLength, SpacesFirst: true}

var (
	ClusterPolicy    = Policy{Subject: "Cluster", MaxLength: DefaultFormMaxLength}
	CollectionPolicy = Policy{Subject: "Collection", MaxLength: DefaultFormMaxLength}
	ProjectPolicy    = Policy{Subject: "Project", MaxLength: DefaultFormMaxLength}
)

// ValidateName checks a record name against RecordPolicy.
func ValidateName(name string) schema.Result {
	return RecordPolicy.Validate(name)
}

// Validate applies the policy rules in order; the first failure wins.
func (p Policy) Validate(name string) schema.Result {
	if strings.TrimSpace(name) == "" {
		return p.invalid("is required")
	}
	if p.MaxLength > 0 && utf8.RuneCountInString(name) > p.MaxLength {
		return p.invalid(fmt.Sprintf("must be %d characters or less", p.MaxLength))
	}
	if p.SpacesFirst && strings.Contains(name, " ") {
		return p.invalid("cannot contain spaces")
	}
	if !allowed.MatchString(name) {
		return p.invalid("can only contain letters, numbers, underscores (_), and hyphens (-)")
	}
	for _, word := range reserved {
		if strings.EqualFold(name, word) {
			return p.invalid("cannot be a reserved keyword")
		}
	}
	return schema.Valid()
}

func (p Policy) invalid(rule string) schema.Result {
	prefix := "Name"
	if p.Subject != "" {
		prefix = p.Subject + " name"
	}
	return schema.Invalid(prefix + " " + rule)
}

// Unique reports whether name is not already used among siblings, ignoring case.
func Unique(p Policy, name string, existing []string) schema.Result {
	for _, other := range existing {
		if strings.EqualFold(name, other) {
			return p.invalid("already exists")
		}
	}
	return schema.Valid()
}

// Policies holds the configured policy for each kind.
type Policies map[Kind]Policy

// DefaultPolicies returns the built-in ceilings.
func DefaultPolicies() Policies {
	return Policies{
		KindRecord:     RecordPolicy,
		KindCluster:    ClusterPolicy,
		KindCollection: CollectionPolicy,
		KindProject:    ProjectPolicy,
	}
}

// WithMaxLength returns a copy of ps where kind uses the given ceiling.
// Non-positive values keep the current ceiling.
func (ps Policies) WithMaxLength(kind Kind, n int) Policies {
	out := make(Policies, len(ps))
	for k, p := range ps {
		out[k] = p
	}
	if n > 0 {
		p := out.For(kind)
		p.MaxLength = n
		out[kind] = p
	}
	return out
}

// For returns the policy for kind, falling back to the defaults.
func (ps Policies) For(kind Kind) Policy {
	if p, ok := ps[kind]; ok {
		return p
	}
	if p, ok := DefaultPolicies()[kind]; ok {
		return p
	}
	return RecordPolicy
}

// ParseKind converts a kind name; the empty string means record.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindRecord, nil
	case KindRecord, KindCluster, KindCollection, KindProject:
		return k, nil
	default:
		return "", fmt.Errorf("unknown name kind: %s", s)
	}
}
