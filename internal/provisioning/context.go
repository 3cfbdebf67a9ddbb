package provisioning

import (
	"context"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/util/tags"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    aws.InfrastructureManager
	DNS      dns.Provider
	Observer Observer
	Timeouts *config.Timeouts
	Metrics  *Metrics
}

// NewContext creates a new provisioning context logging through the
// environment-configured logger.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	infra aws.InfrastructureManager,
	dnsProvider dns.Provider,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		DNS:      dnsProvider,
		Observer: NewLogrObserver(LoggerFromEnv()).WithFields(map[string]string{"stack": cfg.Stack}),
		Timeouts: config.LoadTimeouts(),
		Metrics:  NewMetrics(),
	}
}

// Ensured records a resource that now exists, emitting an event and
// counting it.
func (c *Context) Ensured(phase, resourceType, name, id string) {
	LogResourceEnsured(c.Observer, phase, resourceType, name, id)
	c.Metrics.CountResource(resourceType, ActionEnsure)
}

// Deleting announces a pending deletion.
func (c *Context) Deleting(phase, resourceType, name string) {
	LogResourceDeleting(c.Observer, phase, resourceType, name)
}

// Deleted records a deleted resource.
func (c *Context) Deleted(phase, resourceType, name string) {
	LogResourceDeleted(c.Observer, phase, resourceType, name)
	c.Metrics.CountResource(resourceType, ActionDelete)
}

// Failed records a failed resource operation and returns err unchanged.
func (c *Context) Failed(phase, resourceType, name string, err error) error {
	LogResourceFailed(c.Observer, phase, resourceType, name, err)
	c.Metrics.CountResource(resourceType, ActionFail)
	return err
}

// ResourceTags returns the tags for a resource of component named name:
// the ownership tags, the configured extra tags and the Name tag.
func (c *Context) ResourceTags(component, name string) map[string]string {
	b := tags.NewBuilder(c.Config.Stack).Merge(c.Config.Tags).WithComponent(component)
	if name != "" {
		b.WithName(name)
	}
	return b.Build()
}
