package destroy

import (
	"fmt"
	"strings"

	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/provisioning/loadbalancer"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

const phase = "destroy"

// Provisioner handles stack destruction.
type Provisioner struct {
	// KeepDNS leaves DNS records and the certificate in place.
	KeepDNS bool

	// Records are the DNS records persisted by the last apply. When empty
	// the host records are derived from the configuration. The validation
	// records of a certificate that still exists are always deleted.
	Records []dns.Record
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// step deletes one resource.
type step struct {
	resourceType string
	name         string
	run          func() error
}

// Provision destroys the stack and all associated resources.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	stack := ctx.Config.Stack
	ctx.Observer.Printf("[Destroy] Starting destruction of stack %s", stack)

	infra := ctx.Infra
	component := naming.Controller(stack)
	clusterName := naming.Cluster(stack)
	serviceName := naming.Service(component)

	steps := []step{
		{"ecs service", serviceName, func() error { return infra.DeleteService(ctx, clusterName, serviceName) }},
		{"task definition", naming.TaskFamily(component), func() error {
			return infra.DeregisterTaskDefinitions(ctx, naming.TaskFamily(component))
		}},
		{"log group", naming.LogGroup(stack), func() error { return infra.DeleteLogGroup(ctx, naming.LogGroup(stack)) }},
		{"iam role", naming.ExecutionRole(stack), func() error { return infra.DeleteExecutionRole(ctx, naming.ExecutionRole(stack)) }},
		{"load balancer", naming.ALB(stack), func() error { return infra.DeleteLoadBalancer(ctx, naming.ALB(stack)) }},
		{"load balancer", naming.NLB(stack), func() error { return infra.DeleteLoadBalancer(ctx, naming.NLB(stack)) }},
	}
	for _, name := range TargetGroupNames(stack) {
		steps = append(steps, step{"target group", name, func() error { return infra.DeleteTargetGroup(ctx, name) }})
	}

	if p.KeepDNS {
		ctx.Observer.Printf("[Destroy] Keeping DNS records and certificate")
	} else {
		domain := ctx.Config.LoadBalancer.CertificateDomain
		steps = append(steps,
			step{"dns record", ctx.Config.Controller.Hostname, func() error { return p.deleteRecords(ctx) }},
			step{"certificate", domain, func() error { return infra.DeleteCertificates(ctx, domain, stack) }},
		)
	}

	steps = append(steps,
		step{"file system", naming.FileSystem(stack), func() error { return infra.DeleteFileSystem(ctx, naming.FileSystem(stack)) }},
		step{"ecs cluster", clusterName, func() error { return infra.DeleteCluster(ctx, clusterName) }},
		step{"vpc", naming.VPC(stack), func() error { return infra.DeleteNetwork(ctx, naming.VPC(stack), stack) }},
	)

	cleanupErrs := &aws.CleanupError{}
	for _, s := range steps {
		ctx.Deleting(phase, s.resourceType, s.name)
		if err := s.run(); err != nil {
			cleanupErrs.Add(ctx.Failed(phase, s.resourceType, s.name,
				fmt.Errorf("failed to delete %s %s: %w", s.resourceType, s.name, err)))
			continue
		}
		ctx.Deleted(phase, s.resourceType, s.name)
	}

	if err := cleanupErrs.ErrorOrNil(); err != nil {
		return err
	}
	ctx.Observer.Printf("[Destroy] Stack %s destroyed successfully", stack)
	return nil
}

// deleteRecords removes the stack's records from the configured zone.
func (p *Provisioner) deleteRecords(ctx *provisioning.Context) error {
	if ctx.DNS == nil {
		return fmt.Errorf("no DNS provider configured")
	}
	zone, err := ctx.DNS.Zone(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up zone: %w", err)
	}

	records := p.Records
	if len(records) == 0 {
		records = dns.HostRecords(ctx.DNS.Name(), ctx.Config.Controller.Hostname)
	}

	// An apply that failed before saving state leaves validation records
	// only the certificate knows about.
	validation, lookupErr := ctx.Infra.CertificateValidationRecords(ctx, ctx.Config.LoadBalancer.CertificateDomain, ctx.Config.Stack)
	for _, r := range validation {
		records = append(records, dns.Record{Name: r.Name, Type: r.Type})
	}

	if err := ctx.DNS.DeleteRecords(ctx, zone.ID, uniqueRecords(records)); err != nil {
		return err
	}
	if lookupErr != nil {
		return fmt.Errorf("failed to read certificate validation records: %w", lookupErr)
	}
	return nil
}

// uniqueRecords drops records naming the same name and type twice, which
// Route53 rejects within one change batch.
func uniqueRecords(records []dns.Record) []dns.Record {
	seen := make(map[string]bool, len(records))
	out := make([]dns.Record, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(strings.TrimSuffix(r.Name, ".")) + "/" + r.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// TargetGroupNames returns every target group a stack may own: the ALB
// target groups of the controller and the default target group of each
// NLB listener, including the inform port whether enabled or not.
func TargetGroupNames(stack string) []string {
	component := naming.Controller(stack)
	var names []string
	for _, spec := range loadbalancer.Listeners(true) {
		if spec.LoadBalancer == aws.LoadBalancerTypeApplication {
			names = append(names, naming.ALBTargetGroup(component, spec.Port))
			continue
		}
		names = append(names, naming.NLBTargetGroup(stack, spec.Protocol, spec.Port))
	}
	return names
}
