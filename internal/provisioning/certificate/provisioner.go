package certificate

import (
	"errors"
	"fmt"

	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

const phase = "certificate"

// Provisioner handles the hosted zone lookup and the certificate.
type Provisioner struct{}

// NewProvisioner creates a new certificate provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.DNS == nil {
		return errors.New("no DNS provider configured")
	}

	zone, err := ctx.DNS.Zone(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up zone %s: %w", ctx.Config.LoadBalancer.ZoneName, err)
	}
	ctx.State.Zone = zone
	ctx.Ensured(phase, "dns zone", zone.Name, zone.ID)

	domain := ctx.Config.LoadBalancer.CertificateDomain
	name := naming.Certificate(ctx.Config.Stack)
	cert, err := ctx.Infra.EnsureCertificate(ctx, domain, ctx.ResourceTags(phase, name))
	if err != nil {
		return ctx.Failed(phase, "certificate", domain, fmt.Errorf("failed to request certificate for %s: %w", domain, err))
	}
	ctx.Ensured(phase, "certificate", domain, cert.ARN)

	// Records are kept even once issued; ACM renews against them.
	if len(cert.ValidationRecords) > 0 {
		records, err := ctx.DNS.UpsertValidationRecords(ctx, zone.ID, cert.ValidationRecords)
		if err != nil {
			return ctx.Failed(phase, "dns record", domain, fmt.Errorf("failed to write validation records: %w", err))
		}
		ctx.State.AddDNSRecords(records...)
		for _, r := range records {
			ctx.Ensured(phase, "dns record", r.Name, r.Type)
		}
	}

	if cert.Status != aws.CertificateStatusIssued {
		ctx.Observer.Printf("[%s] Waiting for %s to be issued (timeout %v)...", phase, domain, ctx.Timeouts.Certificate)
		if err := ctx.Infra.WaitCertificateIssued(ctx, cert.ARN); err != nil {
			return fmt.Errorf("certificate %s was not issued: %w", cert.ARN, err)
		}
		cert.Status = aws.CertificateStatusIssued
	}

	ctx.State.Certificate = cert
	return nil
}
