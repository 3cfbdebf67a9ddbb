package destroy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the order of delete calls.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func recordingMock(r *recorder) *aws.MockClient {
	return &aws.MockClient{
		DeleteServiceFunc: func(_ context.Context, cluster, name string) error {
			r.add("service " + cluster + "/" + name)
			return nil
		},
		DeregisterTaskDefinitionsFunc: func(_ context.Context, family string) error {
			r.add("taskdef " + family)
			return nil
		},
		DeleteLogGroupFunc: func(_ context.Context, name string) error {
			r.add("loggroup " + name)
			return nil
		},
		DeleteExecutionRoleFunc: func(_ context.Context, name string) error {
			r.add("role " + name)
			return nil
		},
		DeleteLoadBalancerFunc: func(_ context.Context, name string) error {
			r.add("lb " + name)
			return nil
		},
		DeleteTargetGroupFunc: func(_ context.Context, name string) error {
			r.add("tg " + name)
			return nil
		},
		DeleteRecordsFunc: func(_ context.Context, zoneID string, records []aws.RecordSet) error {
			for _, rs := range records {
				r.add("record " + zoneID + " " + rs.Type + " " + rs.Name)
			}
			return nil
		},
		DeleteCertificatesFunc: func(_ context.Context, domain, stack string) error {
			r.add("certificate " + domain + " " + stack)
			return nil
		},
		DeleteFileSystemFunc: func(_ context.Context, token string) error {
			r.add("filesystem " + token)
			return nil
		},
		DeleteClusterFunc: func(_ context.Context, name string) error {
			r.add("cluster " + name)
			return nil
		},
		DeleteNetworkFunc: func(_ context.Context, vpcName, stack string) error {
			r.add("network " + vpcName + " " + stack)
			return nil
		},
	}
}

func newTestContext(infra *aws.MockClient) *provisioning.Context {
	cfg := &config.Config{
		Stack: "home",
		LoadBalancer: config.LoadBalancerConfig{
			CertificateDomain: "*.home.example.com",
			ZoneName:          "home.example.com",
		},
		Controller: config.ControllerConfig{Version: "7.3.83", Hostname: "unifi.home.example.com"},
	}
	cfg.ApplyDefaults()
	ctx := provisioning.NewContext(context.Background(), cfg, infra, dns.NewRoute53Provider(infra, cfg.LoadBalancer.ZoneName))
	ctx.Timeouts = config.TestTimeouts()
	return ctx
}

func TestProvisionerName(t *testing.T) {
	assert.Equal(t, "destroy", NewProvisioner().Name())
}

func TestProvision_ReverseOrder(t *testing.T) {
	r := &recorder{}
	ctx := newTestContext(recordingMock(r))

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, []string{
		"service home-cluster/home-unifi-fargate-service",
		"taskdef home-unifi",
		"loggroup /unifictl/home/unifi-controller",
		"role home-unifi-task-execution",
		"lb home-alb",
		"lb home-nlb",
		"tg home-unifi-alb-8443",
		"tg home-unifi-alb-8843",
		"tg home-tcp-8443-tg",
		"tg home-tcp-8843-tg",
		"tg home-udp-3478-tg",
		"tg home-tcp-8080-tg",
		"record Z-MOCK A unifi.home.example.com",
		"record Z-MOCK AAAA unifi.home.example.com",
		"certificate *.home.example.com home",
		"filesystem home-unifi-config",
		"cluster home-cluster",
		"network home-vpc home",
	}, r.calls)
}

func TestProvision_KeepDNS(t *testing.T) {
	r := &recorder{}
	ctx := newTestContext(recordingMock(r))

	p := NewProvisioner()
	p.KeepDNS = true
	require.NoError(t, p.Provision(ctx))

	for _, call := range r.calls {
		assert.NotContains(t, call, "record")
		assert.NotContains(t, call, "certificate")
	}
	assert.Equal(t, "network home-vpc home", r.calls[len(r.calls)-1])
}

func TestProvision_PersistedRecords(t *testing.T) {
	r := &recorder{}
	ctx := newTestContext(recordingMock(r))

	p := NewProvisioner()
	p.Records = []dns.Record{
		{Name: "_validate.home.example.com", Type: "CNAME"},
		{Name: "unifi.home.example.com", Type: "A"},
	}
	require.NoError(t, p.Provision(ctx))

	assert.Contains(t, r.calls, "record Z-MOCK CNAME _validate.home.example.com")
	assert.Contains(t, r.calls, "record Z-MOCK A unifi.home.example.com")
	assert.NotContains(t, r.calls, "record Z-MOCK AAAA unifi.home.example.com")
}

func TestProvision_DeletesValidationRecordsOfPendingCertificate(t *testing.T) {
	r := &recorder{}
	infra := recordingMock(r)
	infra.CertificateValidationRecordsFunc = func(_ context.Context, domain, stack string) ([]aws.DNSRecord, error) {
		assert.Equal(t, "*.home.example.com", domain)
		assert.Equal(t, "home", stack)
		return []aws.DNSRecord{{Name: "_abc.home.example.com.", Type: "CNAME", Value: "_xyz.acm-validations.aws."}}, nil
	}
	ctx := newTestContext(infra)

	require.NoError(t, NewProvisioner().Provision(ctx))

	recordIdx := indexOf(r.calls, "record Z-MOCK CNAME _abc.home.example.com.")
	certIdx := indexOf(r.calls, "certificate *.home.example.com home")
	require.NotEqual(t, -1, recordIdx)
	assert.Less(t, recordIdx, certIdx)
	assert.Contains(t, r.calls, "record Z-MOCK A unifi.home.example.com")
	assert.Contains(t, r.calls, "record Z-MOCK AAAA unifi.home.example.com")
}

func TestProvision_ValidationRecordsAlreadyPersisted(t *testing.T) {
	r := &recorder{}
	infra := recordingMock(r)
	infra.CertificateValidationRecordsFunc = func(context.Context, string, string) ([]aws.DNSRecord, error) {
		return []aws.DNSRecord{{Name: "_abc.home.example.com.", Type: "CNAME"}}, nil
	}
	ctx := newTestContext(infra)

	p := NewProvisioner()
	p.Records = []dns.Record{{Name: "_abc.home.example.com", Type: "CNAME"}}
	require.NoError(t, p.Provision(ctx))

	cnames := 0
	for _, call := range r.calls {
		if strings.HasPrefix(call, "record Z-MOCK CNAME") {
			cnames++
		}
	}
	assert.Equal(t, 1, cnames)
}

func TestProvision_ValidationLookupFails(t *testing.T) {
	r := &recorder{}
	infra := recordingMock(r)
	infra.CertificateValidationRecordsFunc = func(context.Context, string, string) ([]aws.DNSRecord, error) {
		return nil, errors.New("AccessDeniedException")
	}
	ctx := newTestContext(infra)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read certificate validation records: AccessDeniedException")
	assert.Contains(t, r.calls, "record Z-MOCK A unifi.home.example.com")
	assert.Contains(t, r.calls, "certificate *.home.example.com home")
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

func TestProvision_ContinuesAfterErrors(t *testing.T) {
	r := &recorder{}
	infra := recordingMock(r)
	infra.DeleteServiceFunc = func(context.Context, string, string) error {
		return errors.New("AccessDeniedException")
	}
	infra.DeleteFileSystemFunc = func(context.Context, string) error {
		return errors.New("FileSystemInUse")
	}
	ctx := newTestContext(infra)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)

	var cleanupErr *aws.CleanupError
	require.ErrorAs(t, err, &cleanupErr)
	require.Len(t, cleanupErr.Errors, 2)
	assert.EqualError(t, cleanupErr.Errors[0], "failed to delete ecs service home-unifi-fargate-service: AccessDeniedException")
	assert.EqualError(t, cleanupErr.Errors[1], "failed to delete file system home-unifi-config: FileSystemInUse")

	assert.Contains(t, r.calls, "cluster home-cluster")
	assert.Contains(t, r.calls, "network home-vpc home")
}

func TestProvision_NoDNSProvider(t *testing.T) {
	r := &recorder{}
	ctx := newTestContext(recordingMock(r))
	ctx.DNS = nil

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete dns record unifi.home.example.com: no DNS provider configured")
	assert.Contains(t, r.calls, "certificate *.home.example.com home")
}

func TestTargetGroupNames(t *testing.T) {
	names := TargetGroupNames("home")
	assert.Len(t, names, 6)
	assert.Contains(t, names, "home-tcp-8080-tg")
}
