package aws

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

const (
	statusActive    = "ACTIVE"
	logStreamPrefix = "unifi"
)

func (c *RealClient) describeCluster(ctx context.Context, name string) (*ecstypes.Cluster, error) {
	out, err := c.ecs.DescribeClusters(ctx, &ecs.DescribeClustersInput{Clusters: []string{name}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for i := range out.Clusters {
		if aws.ToString(out.Clusters[i].Status) == statusActive {
			return &out.Clusters[i], nil
		}
	}
	return nil, nil
}

// EnsureCluster creates the ECS cluster with the given capacity providers.
// The first provider becomes the default strategy with weight 1.
func (c *RealClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	strategy := []ecstypes.CapacityProviderStrategyItem{{
		CapacityProvider: aws.String(opts.CapacityProviders[0]),
		Weight:           1,
	}}

	cl, err := (&EnsureOperation[*ecstypes.Cluster]{
		Name:         opts.Name,
		ResourceType: "ecs cluster",
		Get:          c.describeCluster,
		Create: func(ctx context.Context) (*ecstypes.Cluster, error) {
			out, err := c.ecs.CreateCluster(ctx, &ecs.CreateClusterInput{
				ClusterName:                     aws.String(opts.Name),
				CapacityProviders:               opts.CapacityProviders,
				DefaultCapacityProviderStrategy: strategy,
				Tags:                            ecsTags(opts.Tags),
			})
			if err != nil {
				return nil, err
			}
			return out.Cluster, nil
		},
		Update: func(ctx context.Context, cl *ecstypes.Cluster) error {
			if sameStrings(cl.CapacityProviders, opts.CapacityProviders) {
				return nil
			}
			_, err := c.ecs.PutClusterCapacityProviders(ctx, &ecs.PutClusterCapacityProvidersInput{
				Cluster:                         cl.ClusterArn,
				CapacityProviders:               opts.CapacityProviders,
				DefaultCapacityProviderStrategy: strategy,
			})
			return err
		},
	}).Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return &Cluster{ARN: aws.ToString(cl.ClusterArn), Name: aws.ToString(cl.ClusterName)}, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func taskDefinitionInput(opts TaskDefinitionOpts) *ecs.RegisterTaskDefinitionInput {
	env := make([]ecstypes.KeyValuePair, 0, len(opts.Environment))
	keys := make([]string, 0, len(opts.Environment))
	for k := range opts.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, ecstypes.KeyValuePair{Name: aws.String(k), Value: aws.String(opts.Environment[k])})
	}

	ports := make([]ecstypes.PortMapping, 0, len(opts.PortMappings))
	for _, p := range opts.PortMappings {
		ports = append(ports, ecstypes.PortMapping{
			ContainerPort: aws.Int32(p.ContainerPort),
			HostPort:      aws.Int32(p.ContainerPort),
			Protocol:      ecstypes.TransportProtocol(p.Protocol),
		})
	}

	container := ecstypes.ContainerDefinition{
		Name:         aws.String(opts.ContainerName),
		Image:        aws.String(opts.Image),
		Cpu:          int32(opts.ContainerCPU),
		Memory:       aws.Int32(int32(opts.ContainerMemory)),
		Essential:    aws.Bool(true),
		Environment:  env,
		PortMappings: ports,
		LogConfiguration: &ecstypes.LogConfiguration{
			LogDriver: ecstypes.LogDriverAwslogs,
			Options: map[string]string{
				"awslogs-group":         opts.LogGroup,
				"awslogs-region":        opts.Region,
				"awslogs-stream-prefix": logStreamPrefix,
			},
		},
	}

	in := &ecs.RegisterTaskDefinitionInput{
		Family:                  aws.String(opts.Family),
		Cpu:                     aws.String(strconv.Itoa(opts.TaskCPU)),
		Memory:                  aws.String(strconv.Itoa(opts.TaskMemory)),
		NetworkMode:             ecstypes.NetworkModeAwsvpc,
		RequiresCompatibilities: []ecstypes.Compatibility{ecstypes.CompatibilityFargate},
		ExecutionRoleArn:        aws.String(opts.ExecutionRoleARN),
		Tags:                    ecsTags(opts.Tags),
	}

	if v := opts.Volume; v != nil {
		container.MountPoints = []ecstypes.MountPoint{{
			SourceVolume:  aws.String(v.Name),
			ContainerPath: aws.String(v.ContainerPath),
			ReadOnly:      aws.Bool(false),
		}}
		in.Volumes = []ecstypes.Volume{{
			Name: aws.String(v.Name),
			EfsVolumeConfiguration: &ecstypes.EFSVolumeConfiguration{
				FileSystemId:      aws.String(v.FileSystemID),
				TransitEncryption: ecstypes.EFSTransitEncryptionEnabled,
				AuthorizationConfig: &ecstypes.EFSAuthorizationConfig{
					AccessPointId: aws.String(v.AccessPointID),
					Iam:           ecstypes.EFSAuthorizationConfigIAMDisabled,
				},
			},
		}}
	}

	in.ContainerDefinitions = []ecstypes.ContainerDefinition{container}
	return in
}

// taskDefinitionMatches compares the fields unifictl sets.
func taskDefinitionMatches(td *ecstypes.TaskDefinition, in *ecs.RegisterTaskDefinitionInput) bool {
	if td == nil || len(td.ContainerDefinitions) != 1 {
		return false
	}
	if aws.ToString(td.Cpu) != aws.ToString(in.Cpu) ||
		aws.ToString(td.Memory) != aws.ToString(in.Memory) ||
		aws.ToString(td.ExecutionRoleArn) != aws.ToString(in.ExecutionRoleArn) {
		return false
	}

	have, want := td.ContainerDefinitions[0], in.ContainerDefinitions[0]
	if aws.ToString(have.Image) != aws.ToString(want.Image) ||
		have.Cpu != want.Cpu ||
		aws.ToInt32(have.Memory) != aws.ToInt32(want.Memory) ||
		len(have.PortMappings) != len(want.PortMappings) ||
		len(have.MountPoints) != len(want.MountPoints) ||
		len(td.Volumes) != len(in.Volumes) {
		return false
	}

	if len(have.Environment) != len(want.Environment) {
		return false
	}
	env := make(map[string]string, len(have.Environment))
	for _, kv := range have.Environment {
		env[aws.ToString(kv.Name)] = aws.ToString(kv.Value)
	}
	for _, kv := range want.Environment {
		if v, ok := env[aws.ToString(kv.Name)]; !ok || v != aws.ToString(kv.Value) {
			return false
		}
	}

	ports := make(map[string]bool, len(have.PortMappings))
	for _, p := range have.PortMappings {
		ports[fmt.Sprintf("%d/%s", aws.ToInt32(p.ContainerPort), p.Protocol)] = true
	}
	for _, p := range want.PortMappings {
		if !ports[fmt.Sprintf("%d/%s", aws.ToInt32(p.ContainerPort), p.Protocol)] {
			return false
		}
	}

	for i := range in.Volumes {
		hv, wv := td.Volumes[i].EfsVolumeConfiguration, in.Volumes[i].EfsVolumeConfiguration
		if hv == nil || wv == nil || aws.ToString(hv.FileSystemId) != aws.ToString(wv.FileSystemId) {
			return false
		}
		if hv.AuthorizationConfig == nil ||
			aws.ToString(hv.AuthorizationConfig.AccessPointId) != aws.ToString(wv.AuthorizationConfig.AccessPointId) {
			return false
		}
	}
	return true
}

// RegisterTaskDefinition registers a new revision of the family unless the
// latest active revision already matches.
func (c *RealClient) RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts) (string, error) {
	in := taskDefinitionInput(opts)

	list, err := c.ecs.ListTaskDefinitions(ctx, &ecs.ListTaskDefinitionsInput{
		FamilyPrefix: aws.String(opts.Family),
		Status:       ecstypes.TaskDefinitionStatusActive,
		Sort:         ecstypes.SortOrderDesc,
		MaxResults:   aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list task definitions: %w", err)
	}
	if len(list.TaskDefinitionArns) > 0 {
		latest := list.TaskDefinitionArns[0]
		out, err := c.ecs.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
			TaskDefinition: aws.String(latest),
		})
		if err != nil {
			return "", fmt.Errorf("failed to describe task definition %s: %w", latest, err)
		}
		if taskDefinitionMatches(out.TaskDefinition, in) {
			return latest, nil
		}
	}

	out, err := c.ecs.RegisterTaskDefinition(ctx, in)
	if err != nil {
		return "", fmt.Errorf("failed to register task definition %s: %w", opts.Family, err)
	}
	return aws.ToString(out.TaskDefinition.TaskDefinitionArn), nil
}

func (c *RealClient) describeService(ctx context.Context, cluster, name string) (*ecstypes.Service, error) {
	out, err := c.ecs.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for i := range out.Services {
		if aws.ToString(out.Services[i].Status) != "INACTIVE" {
			return &out.Services[i], nil
		}
	}
	return nil, nil
}

func toService(s *ecstypes.Service) *Service {
	return &Service{
		ARN:          aws.ToString(s.ServiceArn),
		Name:         aws.ToString(s.ServiceName),
		Status:       aws.ToString(s.Status),
		DesiredCount: s.DesiredCount,
		RunningCount: s.RunningCount,
	}
}

func serviceLoadBalancers(opts ServiceOpts) []ecstypes.LoadBalancer {
	lbs := make([]ecstypes.LoadBalancer, 0, len(opts.LoadBalancers))
	for _, lb := range opts.LoadBalancers {
		lbs = append(lbs, ecstypes.LoadBalancer{
			TargetGroupArn: aws.String(lb.TargetGroupARN),
			ContainerName:  aws.String(lb.ContainerName),
			ContainerPort:  aws.Int32(lb.ContainerPort),
		})
	}
	return lbs
}

// EnsureService creates the Fargate service or rolls an existing one to
// the requested task definition and desired count.
func (c *RealClient) EnsureService(ctx context.Context, opts ServiceOpts) (*Service, error) {
	svc, err := (&EnsureOperation[*ecstypes.Service]{
		Name:         opts.Name,
		ResourceType: "ecs service",
		Get: func(ctx context.Context, name string) (*ecstypes.Service, error) {
			return c.describeService(ctx, opts.Cluster, name)
		},
		Create: func(ctx context.Context) (*ecstypes.Service, error) {
			out, err := c.ecs.CreateService(ctx, &ecs.CreateServiceInput{
				Cluster:        aws.String(opts.Cluster),
				ServiceName:    aws.String(opts.Name),
				TaskDefinition: aws.String(opts.TaskDefinitionARN),
				DesiredCount:   aws.Int32(opts.DesiredCount),
				NetworkConfiguration: &ecstypes.NetworkConfiguration{
					AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
						Subnets:        opts.SubnetIDs,
						SecurityGroups: opts.SecurityGroupIDs,
						AssignPublicIp: ecstypes.AssignPublicIpDisabled,
					},
				},
				LoadBalancers:                 serviceLoadBalancers(opts),
				HealthCheckGracePeriodSeconds: aws.Int32(opts.HealthCheckGracePeriod),
				PropagateTags:                 ecstypes.PropagateTagsService,
				Tags:                          ecsTags(opts.Tags),
			})
			if err != nil {
				return nil, err
			}
			return out.Service, nil
		},
		Update: func(ctx context.Context, s *ecstypes.Service) error {
			if aws.ToString(s.TaskDefinition) == opts.TaskDefinitionARN &&
				s.DesiredCount == opts.DesiredCount &&
				len(s.LoadBalancers) == len(opts.LoadBalancers) {
				return nil
			}
			out, err := c.ecs.UpdateService(ctx, &ecs.UpdateServiceInput{
				Cluster:                       aws.String(opts.Cluster),
				Service:                       aws.String(opts.Name),
				TaskDefinition:                aws.String(opts.TaskDefinitionARN),
				DesiredCount:                  aws.Int32(opts.DesiredCount),
				LoadBalancers:                 serviceLoadBalancers(opts),
				HealthCheckGracePeriodSeconds: aws.Int32(opts.HealthCheckGracePeriod),
			})
			if err != nil {
				return err
			}
			*s = *out.Service
			return nil
		},
	}).Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return toService(svc), nil
}

// WaitServiceStable waits until the service has a single deployment with
// all desired tasks running.
func (c *RealClient) WaitServiceStable(ctx context.Context, cluster, service string) error {
	return pollUntil(ctx, c, c.timeouts.ServiceStable, "service "+service, func(ctx context.Context) (bool, error) {
		s, err := c.describeService(ctx, cluster, service)
		if err != nil {
			return false, err
		}
		if s == nil {
			return false, fmt.Errorf("service %s not found", service)
		}
		return len(s.Deployments) == 1 && s.RunningCount == s.DesiredCount, nil
	})
}
