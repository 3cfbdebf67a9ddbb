package aws

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/homelab-infra/unifictl/internal/util/tags"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
)

// idempotencyToken derives a stable ACM request token so a retried apply
// within the hour does not request a second certificate.
func idempotencyToken(domain, stack string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stack + "/" + domain))
	return fmt.Sprintf("unifictl%016x", h.Sum64())
}

// findCertificate returns the ARN of the pending or issued certificate for
// domain that carries the stack tag, or "" if there is none.
func (c *RealClient) findCertificate(ctx context.Context, domain, stack string) (string, error) {
	p := acm.NewListCertificatesPaginator(c.acm, &acm.ListCertificatesInput{
		CertificateStatuses: []acmtypes.CertificateStatus{
			acmtypes.CertificateStatusPendingValidation,
			acmtypes.CertificateStatusIssued,
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list certificates: %w", err)
		}
		for _, summary := range page.CertificateSummaryList {
			if aws.ToString(summary.DomainName) != domain {
				continue
			}
			out, err := c.acm.ListTagsForCertificate(ctx, &acm.ListTagsForCertificateInput{
				CertificateArn: summary.CertificateArn,
			})
			if err != nil {
				return "", fmt.Errorf("failed to list certificate tags: %w", err)
			}
			for _, t := range out.Tags {
				if aws.ToString(t.Key) == tags.KeyStack && aws.ToString(t.Value) == stack {
					return aws.ToString(summary.CertificateArn), nil
				}
			}
		}
	}
	return "", nil
}

func (c *RealClient) describeCertificate(ctx context.Context, arn string) (*Certificate, error) {
	out, err := c.acm.DescribeCertificate(ctx, &acm.DescribeCertificateInput{
		CertificateArn: aws.String(arn),
	})
	if err != nil {
		return nil, err
	}
	detail := out.Certificate
	cert := &Certificate{
		ARN:    arn,
		Domain: aws.ToString(detail.DomainName),
		Status: string(detail.Status),
	}

	// A wildcard and its apex share one validation record.
	seen := make(map[string]bool)
	for _, dv := range detail.DomainValidationOptions {
		rr := dv.ResourceRecord
		if rr == nil || seen[aws.ToString(rr.Name)] {
			continue
		}
		seen[aws.ToString(rr.Name)] = true
		cert.ValidationRecords = append(cert.ValidationRecords, DNSRecord{
			Name:  aws.ToString(rr.Name),
			Type:  string(rr.Type),
			Value: aws.ToString(rr.Value),
		})
	}
	return cert, nil
}

// EnsureCertificate requests a DNS validated certificate for domain. ACM
// fills in the validation records asynchronously, so a pending certificate
// is polled until they are present.
func (c *RealClient) EnsureCertificate(ctx context.Context, domain string, t map[string]string) (*Certificate, error) {
	stack := t[tags.KeyStack]

	waitRecords := func(ctx context.Context, cert *Certificate) error {
		if cert.Status != CertificateStatusPendingValidation || len(cert.ValidationRecords) > 0 {
			return nil
		}
		return pollUntil(ctx, c, c.timeouts.DNSChange, "validation records of "+domain, func(ctx context.Context) (bool, error) {
			latest, err := c.describeCertificate(ctx, cert.ARN)
			if err != nil {
				return false, err
			}
			if len(latest.ValidationRecords) == 0 {
				return false, nil
			}
			*cert = *latest
			return true, nil
		})
	}

	return (&EnsureOperation[*Certificate]{
		Name:         domain,
		ResourceType: "certificate",
		Get: func(ctx context.Context, name string) (*Certificate, error) {
			arn, err := c.findCertificate(ctx, name, stack)
			if err != nil || arn == "" {
				return nil, err
			}
			return c.describeCertificate(ctx, arn)
		},
		Create: func(ctx context.Context) (*Certificate, error) {
			out, err := c.acm.RequestCertificate(ctx, &acm.RequestCertificateInput{
				DomainName:       aws.String(domain),
				ValidationMethod: acmtypes.ValidationMethodDns,
				IdempotencyToken: aws.String(idempotencyToken(domain, stack)),
				Tags:             acmTags(t),
			})
			if err != nil {
				return nil, err
			}
			return &Certificate{
				ARN:    aws.ToString(out.CertificateArn),
				Domain: domain,
				Status: CertificateStatusPendingValidation,
			}, nil
		},
		AfterCreate: waitRecords,
		Update:      waitRecords,
	}).Execute(ctx, c)
}

// WaitCertificateIssued blocks until ACM reports the certificate as issued.
func (c *RealClient) WaitCertificateIssued(ctx context.Context, arn string) error {
	return pollUntil(ctx, c, c.timeouts.Certificate, "certificate "+arn, func(ctx context.Context) (bool, error) {
		cert, err := c.describeCertificate(ctx, arn)
		if err != nil {
			return false, err
		}
		switch acmtypes.CertificateStatus(cert.Status) {
		case acmtypes.CertificateStatusIssued:
			return true, nil
		case acmtypes.CertificateStatusPendingValidation:
			return false, nil
		default:
			return false, fmt.Errorf("certificate %s is %s", arn, cert.Status)
		}
	})
}

func (c *RealClient) CertificateValidationRecords(ctx context.Context, domain, stack string) ([]DNSRecord, error) {
	arn, err := c.findCertificate(ctx, domain, stack)
	if err != nil || arn == "" {
		return nil, err
	}
	cert, err := c.describeCertificate(ctx, arn)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe certificate %s: %w", arn, err)
	}
	return cert.ValidationRecords, nil
}
