package stratum

import (
	"log/slog"

	"github.com/aretw0/stratum/internal/logging"
	"github.com/aretw0/stratum/pkg/naming"
	"github.com/aretw0/stratum/pkg/schema"
)

// Version is the release version, overridden at build time with -ldflags.
var Version = "0.3.0"

// ValueEvent describes one value check.
type ValueEvent struct {
	Tag    schema.Tag
	Result schema.Result
}

// NameEvent describes one name check.
type NameEvent struct {
	Kind   naming.Kind
	Result schema.Result
}

// Hooks are called after every check. Nil hooks are skipped.
type Hooks struct {
	OnValue func(ValueEvent)
	OnName  func(NameEvent)
}

// Validator is the high-level entry point for value and name validation.
type Validator struct {
	policies naming.Policies
	hooks    Hooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Validator.
type Option func(*Validator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(v *Validator) {
		v.hooks = hooks
	}
}

// WithPolicies replaces the default naming policies.
func WithPolicies(policies naming.Policies) Option {
	return func(v *Validator) {
		v.policies = policies
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		policies: naming.DefaultPolicies(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logging.NewNop()
	}
	return v
}

// ValidateValue checks raw input against tag.
func (v *Validator) ValidateValue(raw string, tag schema.Tag) schema.Result {
	res := schema.ValidateValue(raw, tag)
	v.logger.Debug("value checked", "tag", tag, "valid", res.OK(), "reason", res.Reason())
	if v.hooks.OnValue != nil {
		v.hooks.OnValue(ValueEvent{Tag: tag, Result: res})
	}
	return res
}

// ValidateName checks a name against the configured policy for kind.
func (v *Validator) ValidateName(kind naming.Kind, name string) schema.Result {
	res := v.policies.For(kind).Validate(name)
	v.logger.Debug("name checked", "kind", kind, "valid", res.OK(), "reason", res.Reason())
	if v.hooks.OnName != nil {
		v.hooks.OnName(NameEvent{Kind: kind, Result: res})
	}
	return res
}

// Policies returns the configured naming policies.
func (v *Validator) Policies() naming.Policies {
	return v.policies
}
