package tags

import "sort"

// Standard tag keys.
const (
	// KeyStack identifies which stack a resource belongs to.
	KeyStack = "unifictl.io/stack"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "unifictl.io/managed-by"

	// KeyComponent identifies the logical component (network, controller, ...).
	KeyComponent = "unifictl.io/component"

	// KeySubnetTier identifies the subnet tier (lb, ecs, efs).
	KeySubnetTier = "unifictl.io/subnet-tier"

	// KeyName is the AWS console display name.
	KeyName = "Name"
)

const ManagedByUnifictl = "unifictl"

// Builder provides a fluent interface for building resource tags.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a builder with the stack and manager tags pre-set.
func NewBuilder(stack string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyStack:     stack,
			KeyManagedBy: ManagedByUnifictl,
		},
	}
}

func (b *Builder) WithName(name string) *Builder {
	b.tags[KeyName] = name
	return b
}

func (b *Builder) WithComponent(component string) *Builder {
	b.tags[KeyComponent] = component
	return b
}

func (b *Builder) WithSubnetTier(tier string) *Builder {
	b.tags[KeySubnetTier] = tier
	return b
}

// Merge adds user-supplied tags. Reserved keys are never overwritten.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyStack || k == KeyManagedBy {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tag map.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		result[k] = v
	}
	return result
}

// Keys returns the tag keys in sorted order so SDK inputs are deterministic.
func Keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OwnedBy reports whether m carries the ownership tag of stack.
func OwnedBy(m map[string]string, stack string) bool {
	return m[KeyStack] == stack
}
