package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelab-infra/unifictl/internal/util/tags"
)

func certificateDetail(arn string, status acmtypes.CertificateStatus, records ...string) *acm.DescribeCertificateOutput {
	detail := &acmtypes.CertificateDetail{
		CertificateArn: aws.String(arn),
		DomainName:     aws.String("unifi.example.com"),
		Status:         status,
	}
	for _, name := range records {
		detail.DomainValidationOptions = append(detail.DomainValidationOptions, acmtypes.DomainValidation{
			DomainName: aws.String("unifi.example.com"),
			ResourceRecord: &acmtypes.ResourceRecord{
				Name:  aws.String(name),
				Type:  acmtypes.RecordTypeCname,
				Value: aws.String("_x.acm-validations.aws."),
			},
		})
	}
	return &acm.DescribeCertificateOutput{Certificate: detail}
}

func TestIdempotencyToken(t *testing.T) {
	t.Parallel()

	a := idempotencyToken("unifi.example.com", "home")
	assert.Equal(t, a, idempotencyToken("unifi.example.com", "home"))
	assert.NotEqual(t, a, idempotencyToken("unifi.example.com", "lab"))
	assert.Regexp(t, `^unifictl[0-9a-f]{16}$`, a)
}

func TestEnsureCertificate_ReusesTaggedCertificate(t *testing.T) {
	t.Parallel()

	fake := &fakeACM{
		listCertificates: func(_ *acm.ListCertificatesInput) (*acm.ListCertificatesOutput, error) {
			return &acm.ListCertificatesOutput{CertificateSummaryList: []acmtypes.CertificateSummary{
				{CertificateArn: aws.String("arn:acm:other-domain"), DomainName: aws.String("other.example.com")},
				{CertificateArn: aws.String("arn:acm:foreign"), DomainName: aws.String("unifi.example.com")},
				{CertificateArn: aws.String("arn:acm:ours"), DomainName: aws.String("unifi.example.com")},
			}}, nil
		},
		listTags: func(in *acm.ListTagsForCertificateInput) (*acm.ListTagsForCertificateOutput, error) {
			stack := "lab"
			if aws.ToString(in.CertificateArn) == "arn:acm:ours" {
				stack = "home"
			}
			return &acm.ListTagsForCertificateOutput{Tags: []acmtypes.Tag{
				{Key: aws.String(tags.KeyStack), Value: aws.String(stack)},
			}}, nil
		},
		describeCertificate: func(in *acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error) {
			assert.Equal(t, "arn:acm:ours", aws.ToString(in.CertificateArn))
			return certificateDetail("arn:acm:ours", acmtypes.CertificateStatusIssued, "_a.unifi.example.com.", "_a.unifi.example.com."), nil
		},
	}
	client := newTestClient(WithACM(fake))

	cert, err := client.EnsureCertificate(context.Background(), "unifi.example.com", map[string]string{tags.KeyStack: "home"})
	require.NoError(t, err)
	assert.Equal(t, "arn:acm:ours", cert.ARN)
	assert.Equal(t, CertificateStatusIssued, cert.Status)
	require.Len(t, cert.ValidationRecords, 1)
	assert.Equal(t, "CNAME", cert.ValidationRecords[0].Type)
	assert.NotContains(t, fake.Calls(), "RequestCertificate")
}

func TestEnsureCertificate_RequestsAndWaitsForRecords(t *testing.T) {
	t.Parallel()

	describes := 0
	var requested *acm.RequestCertificateInput
	fake := &fakeACM{
		listCertificates: func(_ *acm.ListCertificatesInput) (*acm.ListCertificatesOutput, error) {
			return &acm.ListCertificatesOutput{}, nil
		},
		requestCertificate: func(in *acm.RequestCertificateInput) (*acm.RequestCertificateOutput, error) {
			requested = in
			return &acm.RequestCertificateOutput{CertificateArn: aws.String("arn:acm:new")}, nil
		},
		describeCertificate: func(_ *acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error) {
			describes++
			if describes == 1 {
				return certificateDetail("arn:acm:new", acmtypes.CertificateStatusPendingValidation), nil
			}
			return certificateDetail("arn:acm:new", acmtypes.CertificateStatusPendingValidation, "_b.unifi.example.com."), nil
		},
	}
	client := newTestClient(WithACM(fake))

	cert, err := client.EnsureCertificate(context.Background(), "unifi.example.com", map[string]string{tags.KeyStack: "home"})
	require.NoError(t, err)
	assert.Equal(t, "arn:acm:new", cert.ARN)
	require.Len(t, cert.ValidationRecords, 1)
	assert.Equal(t, "_b.unifi.example.com.", cert.ValidationRecords[0].Name)
	assert.Equal(t, 2, describes)

	assert.Equal(t, acmtypes.ValidationMethodDns, requested.ValidationMethod)
	assert.Equal(t, idempotencyToken("unifi.example.com", "home"), aws.ToString(requested.IdempotencyToken))
}

func TestWaitCertificateIssued(t *testing.T) {
	t.Parallel()

	describes := 0
	fake := &fakeACM{
		describeCertificate: func(_ *acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error) {
			describes++
			if describes < 3 {
				return certificateDetail("arn:acm:1", acmtypes.CertificateStatusPendingValidation), nil
			}
			return certificateDetail("arn:acm:1", acmtypes.CertificateStatusIssued), nil
		},
	}
	client := newTestClient(WithACM(fake))

	require.NoError(t, client.WaitCertificateIssued(context.Background(), "arn:acm:1"))
	assert.Equal(t, 3, describes)
}

func TestWaitCertificateIssued_Failed(t *testing.T) {
	t.Parallel()

	fake := &fakeACM{
		describeCertificate: func(_ *acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error) {
			return certificateDetail("arn:acm:1", acmtypes.CertificateStatusFailed), nil
		},
	}
	client := newTestClient(WithACM(fake))

	err := client.WaitCertificateIssued(context.Background(), "arn:acm:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "certificate arn:acm:1 is FAILED")
}

func TestCertificateValidationRecords(t *testing.T) {
	t.Parallel()

	fake := &fakeACM{
		listCertificates: func(_ *acm.ListCertificatesInput) (*acm.ListCertificatesOutput, error) {
			return &acm.ListCertificatesOutput{CertificateSummaryList: []acmtypes.CertificateSummary{
				{CertificateArn: aws.String("arn:acm:pending"), DomainName: aws.String("unifi.example.com")},
			}}, nil
		},
		listTags: func(_ *acm.ListTagsForCertificateInput) (*acm.ListTagsForCertificateOutput, error) {
			return &acm.ListTagsForCertificateOutput{Tags: []acmtypes.Tag{
				{Key: aws.String(tags.KeyStack), Value: aws.String("home")},
			}}, nil
		},
		describeCertificate: func(_ *acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error) {
			return certificateDetail("arn:acm:pending", acmtypes.CertificateStatusPendingValidation, "_c.unifi.example.com."), nil
		},
	}
	client := newTestClient(WithACM(fake))

	records, err := client.CertificateValidationRecords(context.Background(), "unifi.example.com", "home")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "_c.unifi.example.com.", records[0].Name)
	assert.Equal(t, "CNAME", records[0].Type)
}

func TestCertificateValidationRecords_NoCertificate(t *testing.T) {
	t.Parallel()

	fake := &fakeACM{
		listCertificates: func(_ *acm.ListCertificatesInput) (*acm.ListCertificatesOutput, error) {
			return &acm.ListCertificatesOutput{}, nil
		},
	}
	client := newTestClient(WithACM(fake))

	records, err := client.CertificateValidationRecords(context.Background(), "unifi.example.com", "home")
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.NotContains(t, fake.Calls(), "DescribeCertificate")
}
