package orchestration

import (
	"context"
	"time"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/provisioning/certificate"
	"github.com/homelab-infra/unifictl/internal/provisioning/cluster"
	"github.com/homelab-infra/unifictl/internal/provisioning/controller"
	"github.com/homelab-infra/unifictl/internal/provisioning/destroy"
	"github.com/homelab-infra/unifictl/internal/provisioning/loadbalancer"
	"github.com/homelab-infra/unifictl/internal/provisioning/network"
	"github.com/homelab-infra/unifictl/internal/provisioning/storage"
)

// Result is the outcome of a run.
type Result struct {
	State    *provisioning.State
	Metrics  *provisioning.Metrics
	Started  time.Time
	Finished time.Time
}

// DestroyOptions tune a teardown.
type DestroyOptions struct {
	KeepDNS bool
	// Records are the DNS records persisted by the last apply.
	Records []dns.Record
}

// Reconciler orchestrates the provisioning workflow of one stack.
type Reconciler struct {
	infra  aws.InfrastructureManager
	dns    dns.Provider
	config *config.Config

	// Timeouts overrides the timeouts loaded from the environment.
	Timeouts *config.Timeouts
	// Observer overrides the default logr observer.
	Observer provisioning.Observer
}

// NewReconciler creates a new orchestration reconciler.
func NewReconciler(infra aws.InfrastructureManager, dnsProvider dns.Provider, cfg *config.Config) *Reconciler {
	return &Reconciler{
		infra:  infra,
		dns:    dnsProvider,
		config: cfg,
	}
}

// Phases returns the apply phases in execution order.
func Phases() []provisioning.Phase {
	return []provisioning.Phase{
		provisioning.NewValidationPhase(),
		network.NewProvisioner(),
		cluster.NewProvisioner(),
		certificate.NewProvisioner(),
		loadbalancer.NewProvisioner(),
		storage.NewProvisioner(),
		controller.NewProvisioner(),
	}
}

// Reconcile ensures that every resource of the stack matches the
// configuration. The result is returned on failure too, holding whatever
// the completed phases produced.
func (r *Reconciler) Reconcile(ctx context.Context) (*Result, error) {
	pCtx := r.newContext(ctx)
	result := &Result{State: pCtx.State, Metrics: pCtx.Metrics, Started: time.Now()}

	err := provisioning.NewPipeline(Phases()...).Run(pCtx)
	result.Finished = time.Now()
	if err != nil {
		return result, err
	}
	pCtx.Metrics.MarkSuccess(result.Finished)
	return result, nil
}

// Destroy removes every resource of the stack.
func (r *Reconciler) Destroy(ctx context.Context, opts DestroyOptions) (*Result, error) {
	pCtx := r.newContext(ctx)
	result := &Result{State: pCtx.State, Metrics: pCtx.Metrics, Started: time.Now()}

	p := destroy.NewProvisioner()
	p.KeepDNS = opts.KeepDNS
	p.Records = opts.Records

	err := provisioning.NewPipeline(p).Run(pCtx)
	result.Finished = time.Now()
	return result, err
}

func (r *Reconciler) newContext(ctx context.Context) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, r.config, r.infra, r.dns)
	if r.Timeouts != nil {
		pCtx.Timeouts = r.Timeouts
	}
	if r.Observer != nil {
		pCtx.Observer = r.Observer
	}
	return pCtx
}
