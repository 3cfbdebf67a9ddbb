package provisioning

import (
	"fmt"
	"strings"

	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Network results
	VPC               *aws.VPC
	Subnets           []*aws.Subnet // every tier, ordered by tier then zone
	InternetGatewayID string
	NATGatewayIDs     []string

	// Cluster results
	Cluster *aws.Cluster

	// Certificate results
	Zone        *dns.Zone
	Certificate *aws.Certificate

	// Load balancer results
	ALBSecurityGroup *aws.SecurityGroup
	ALB              *aws.LoadBalancer
	NLB              *aws.LoadBalancer
	Listeners        map[string]*aws.Listener // keyed by ListenerKey

	// Storage results
	EFSSecurityGroup *aws.SecurityGroup
	FileSystem       *aws.FileSystem
	MountTargetIDs   []string
	AccessPoint      *aws.AccessPoint

	// Controller results
	TaskSecurityGroup *aws.SecurityGroup
	TargetGroups      map[string]*aws.TargetGroup // keyed by name
	LogGroup          string
	ExecutionRoleARN  string
	TaskDefinitionARN string
	Service           *aws.Service
	WebAdminURL       string

	// DNSRecords lists every record written, for destroy.
	DNSRecords []dns.Record
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Listeners:    make(map[string]*aws.Listener),
		TargetGroups: make(map[string]*aws.TargetGroup),
	}
}

// ListenerKey names a listener in State.Listeners, e.g. "alb-https-8443".
func ListenerKey(lbType, protocol string, port int32) string {
	kind := "nlb"
	if lbType == aws.LoadBalancerTypeApplication {
		kind = "alb"
	}
	return fmt.Sprintf("%s-%s-%d", kind, strings.ToLower(protocol), port)
}

// Listener returns the listener stored under key or an error naming it.
func (s *State) Listener(key string) (*aws.Listener, error) {
	l, ok := s.Listeners[key]
	if !ok || l == nil {
		return nil, fmt.Errorf("listener %s has not been provisioned", key)
	}
	return l, nil
}

// AddDNSRecords appends records not already tracked.
func (s *State) AddDNSRecords(records ...dns.Record) {
	for _, r := range records {
		known := false
		for _, existing := range s.DNSRecords {
			if existing == r {
				known = true
				break
			}
		}
		if !known {
			s.DNSRecords = append(s.DNSRecords, r)
		}
	}
}
