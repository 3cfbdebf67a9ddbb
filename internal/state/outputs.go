package state

import (
	"fmt"
	"time"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/provisioning"
)

// Outputs is what an apply leaves behind for status and destroy.
type Outputs struct {
	Stack       string    `yaml:"stack" json:"stack"`
	Region      string    `yaml:"region" json:"region"`
	CreatedAt   time.Time `yaml:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `yaml:"updatedAt" json:"updatedAt"`
	WebAdminURL string    `yaml:"webAdminUrl,omitempty" json:"webAdminUrl,omitempty"`
	ALBDNSName  string    `yaml:"albDnsName,omitempty" json:"albDnsName,omitempty"`
	NLBDNSName  string    `yaml:"nlbDnsName,omitempty" json:"nlbDnsName,omitempty"`

	// Resources maps a resource name to its AWS identifier.
	Resources map[string]string `yaml:"resources,omitempty" json:"resources,omitempty"`

	DNSRecords []dns.Record `yaml:"dnsRecords,omitempty" json:"dnsRecords,omitempty"`
}

// FromState builds the outputs of an apply that finished at now. The
// creation time is carried over from previous when there is one.
func FromState(cfg *config.Config, s *provisioning.State, previous *Outputs, now time.Time) *Outputs {
	out := &Outputs{
		Stack:       cfg.Stack,
		Region:      cfg.Region,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
		WebAdminURL: s.WebAdminURL,
		Resources:   Inventory(s),
		DNSRecords:  append([]dns.Record(nil), s.DNSRecords...),
	}
	if previous != nil && !previous.CreatedAt.IsZero() {
		out.CreatedAt = previous.CreatedAt
	}
	if s.ALB != nil {
		out.ALBDNSName = s.ALB.DNSName
	}
	if s.NLB != nil {
		out.NLBDNSName = s.NLB.DNSName
	}
	return out
}

// Inventory flattens the provisioning state into name/identifier pairs.
func Inventory(s *provisioning.State) map[string]string {
	inv := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			inv[key] = value
		}
	}

	if s.VPC != nil {
		set("vpc", s.VPC.ID)
	}
	for _, sn := range s.Subnets {
		set("subnet/"+sn.Name, sn.ID)
	}
	set("internet-gateway", s.InternetGatewayID)
	for i, id := range s.NATGatewayIDs {
		set(fmt.Sprintf("nat-gateway/%d", i), id)
	}
	if s.Cluster != nil {
		set("ecs-cluster", s.Cluster.ARN)
	}
	if s.Zone != nil {
		set("dns-zone", s.Zone.ID)
	}
	if s.Certificate != nil {
		set("certificate", s.Certificate.ARN)
	}
	if s.ALBSecurityGroup != nil {
		set("security-group/alb", s.ALBSecurityGroup.ID)
	}
	if s.ALB != nil {
		set("load-balancer/alb", s.ALB.ARN)
	}
	if s.NLB != nil {
		set("load-balancer/nlb", s.NLB.ARN)
	}
	for key, l := range s.Listeners {
		if l != nil {
			set("listener/"+key, l.ARN)
		}
	}
	if s.EFSSecurityGroup != nil {
		set("security-group/efs", s.EFSSecurityGroup.ID)
	}
	if s.FileSystem != nil {
		set("file-system", s.FileSystem.ID)
	}
	if s.AccessPoint != nil {
		set("access-point", s.AccessPoint.ID)
	}
	if s.TaskSecurityGroup != nil {
		set("security-group/task", s.TaskSecurityGroup.ID)
	}
	for name, tg := range s.TargetGroups {
		if tg != nil {
			set("target-group/"+name, tg.ARN)
		}
	}
	set("log-group", s.LogGroup)
	set("execution-role", s.ExecutionRoleARN)
	set("task-definition", s.TaskDefinitionARN)
	if s.Service != nil {
		set("ecs-service", s.Service.ARN)
	}
	return inv
}
