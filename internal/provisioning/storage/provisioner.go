package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/provisioning/network"
	"github.com/homelab-infra/unifictl/internal/util/async"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

const phase = "storage"

// NFS port and the POSIX identity the linuxserver image runs as.
const (
	nfsPort = 2049

	posixUID = 1000
	posixGID = 1000

	rootDirectory   = "/unifi"
	rootPermissions = "0755"
)

// Task definition volume.
const (
	VolumeName    = "unifi-config"
	ContainerPath = "/config"
)

// Provisioner handles the file system, its mount targets and access point.
type Provisioner struct{}

// NewProvisioner creates a new storage provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if !ctx.Config.Storage.StorageEnabled() {
		ctx.Observer.Printf("[%s] Persistent storage disabled, skipping", phase)
		return nil
	}
	if ctx.State.VPC == nil {
		return errors.New("network has not been provisioned")
	}

	efsSubnets := network.SubnetIDs(ctx.State.Subnets, config.TierEFS)
	if len(efsSubnets) == 0 {
		return errors.New("no efs subnets found")
	}

	sg, err := p.ensureSecurityGroup(ctx)
	if err != nil {
		return err
	}

	stack := ctx.Config.Stack
	fsName := naming.FileSystem(stack)
	fs, err := ctx.Infra.EnsureFileSystem(ctx, aws.FileSystemOpts{
		CreationToken: fsName,
		Tags:          ctx.ResourceTags(phase, fsName),
	})
	if err != nil {
		return ctx.Failed(phase, "file system", fsName, fmt.Errorf("failed to ensure file system: %w", err))
	}
	ctx.State.FileSystem = fs
	ctx.Ensured(phase, "file system", fsName, fs.ID)

	mountTargets, err := p.ensureMountTargets(ctx, fs.ID, efsSubnets, sg.ID)
	if err != nil {
		return err
	}
	ctx.State.MountTargetIDs = mountTargets

	ctx.Observer.Printf("[%s] Waiting for mount targets of %s (timeout %v)...", phase, fs.ID, ctx.Timeouts.FileSystem)
	if err := ctx.Infra.WaitMountTargetsAvailable(ctx, fs.ID); err != nil {
		return fmt.Errorf("mount targets of %s did not become available: %w", fs.ID, err)
	}

	apName := naming.AccessPoint(stack)
	ap, err := ctx.Infra.EnsureAccessPoint(ctx, aws.AccessPointOpts{
		FileSystemID: fs.ID,
		ClientToken:  apName,
		UID:          posixUID,
		GID:          posixGID,
		Path:         rootDirectory,
		Permissions:  rootPermissions,
		Tags:         ctx.ResourceTags(phase, apName),
	})
	if err != nil {
		return ctx.Failed(phase, "access point", apName, fmt.Errorf("failed to ensure access point: %w", err))
	}
	ctx.State.AccessPoint = ap
	ctx.Ensured(phase, "access point", apName, ap.ID)
	return nil
}

// ensureSecurityGroup allows NFS from the subnets the Fargate tasks run in.
func (p *Provisioner) ensureSecurityGroup(ctx *provisioning.Context) (*aws.SecurityGroup, error) {
	name := naming.EFSSecurityGroup(ctx.Config.Stack)
	cidrs := network.SubnetCIDRs(ctx.State.Subnets, config.TierECS)
	if len(cidrs) == 0 {
		return nil, errors.New("no ecs subnets found")
	}

	ingress := make([]aws.SecurityGroupRule, 0, len(cidrs))
	for _, cidr := range cidrs {
		ingress = append(ingress, aws.SecurityGroupRule{
			Protocol:    "tcp",
			FromPort:    nfsPort,
			ToPort:      nfsPort,
			CIDR:        cidr,
			Description: "nfs from ecs",
		})
	}

	sg, err := ctx.Infra.EnsureSecurityGroup(ctx, aws.SecurityGroupOpts{
		VPCID:       ctx.State.VPC.ID,
		Name:        name,
		Description: "Unifi controller EFS mount targets",
		Ingress:     ingress,
		Tags:        ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "security group", name, fmt.Errorf("failed to ensure EFS security group: %w", err))
	}
	ctx.State.EFSSecurityGroup = sg
	ctx.Ensured(phase, "security group", name, sg.ID)
	return sg, nil
}

func (p *Provisioner) ensureMountTargets(ctx *provisioning.Context, fsID string, subnetIDs []string, sgID string) ([]string, error) {
	ids := make([]string, len(subnetIDs))
	var mu sync.Mutex
	tasks := make([]async.Task, 0, len(subnetIDs))
	for i, subnetID := range subnetIDs {
		tasks = append(tasks, async.Task{
			Name: "mount-target-" + subnetID,
			Func: func(c context.Context) error {
				id, err := ctx.Infra.EnsureMountTarget(c, fsID, subnetID, []string{sgID})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					return ctx.Failed(phase, "mount target", subnetID, err)
				}
				ids[i] = id
				ctx.Ensured(phase, "mount target", subnetID, id)
				return nil
			},
		})
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to ensure mount targets: %w", err)
	}
	return ids, nil
}

// Volume returns the task volume for the provisioned file system, or nil
// when storage is disabled or was not provisioned.
func Volume(state *provisioning.State) *aws.EFSVolume {
	if state.FileSystem == nil || state.AccessPoint == nil {
		return nil
	}
	return &aws.EFSVolume{
		Name:          VolumeName,
		FileSystemID:  state.FileSystem.ID,
		AccessPointID: state.AccessPoint.ID,
		ContainerPath: ContainerPath,
	}
}
