package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
)

func (c *RealClient) getFileSystem(ctx context.Context, creationToken string) (*efstypes.FileSystemDescription, error) {
	out, err := c.efs.DescribeFileSystems(ctx, &efs.DescribeFileSystemsInput{
		CreationToken: aws.String(creationToken),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for i := range out.FileSystems {
		switch out.FileSystems[i].LifeCycleState {
		case efstypes.LifeCycleStateDeleting, efstypes.LifeCycleStateDeleted:
			continue
		}
		return &out.FileSystems[i], nil
	}
	return nil, nil
}

// EnsureFileSystem creates an encrypted general purpose file system whose
// files move to infrequent access after 30 days.
func (c *RealClient) EnsureFileSystem(ctx context.Context, opts FileSystemOpts) (*FileSystem, error) {
	configure := func(ctx context.Context, fs *efstypes.FileSystemDescription) error {
		id := aws.ToString(fs.FileSystemId)
		if fs.LifeCycleState != efstypes.LifeCycleStateAvailable {
			err := pollUntil(ctx, c, c.timeouts.FileSystem, "file system "+id, func(ctx context.Context) (bool, error) {
				out, err := c.efs.DescribeFileSystems(ctx, &efs.DescribeFileSystemsInput{FileSystemId: aws.String(id)})
				if err != nil {
					return false, err
				}
				return len(out.FileSystems) > 0 &&
					out.FileSystems[0].LifeCycleState == efstypes.LifeCycleStateAvailable, nil
			})
			if err != nil {
				return err
			}
		}
		_, err := c.efs.PutLifecycleConfiguration(ctx, &efs.PutLifecycleConfigurationInput{
			FileSystemId: aws.String(id),
			LifecyclePolicies: []efstypes.LifecyclePolicy{
				{TransitionToIA: efstypes.TransitionToIARulesAfter30Days},
			},
		})
		return err
	}

	fs, err := (&EnsureOperation[*efstypes.FileSystemDescription]{
		Name:         opts.CreationToken,
		ResourceType: "file system",
		Get:          c.getFileSystem,
		Create: func(ctx context.Context) (*efstypes.FileSystemDescription, error) {
			out, err := c.efs.CreateFileSystem(ctx, &efs.CreateFileSystemInput{
				CreationToken:   aws.String(opts.CreationToken),
				Encrypted:       aws.Bool(true),
				PerformanceMode: efstypes.PerformanceModeGeneralPurpose,
				ThroughputMode:  efstypes.ThroughputModeBursting,
				Tags:            efsTags(withName(opts.Tags, opts.CreationToken)),
			})
			if err != nil {
				return nil, err
			}
			return &efstypes.FileSystemDescription{
				FileSystemId:   out.FileSystemId,
				FileSystemArn:  out.FileSystemArn,
				LifeCycleState: out.LifeCycleState,
			}, nil
		},
		AfterCreate: configure,
		Update:      configure,
	}).Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return &FileSystem{ID: aws.ToString(fs.FileSystemId), ARN: aws.ToString(fs.FileSystemArn)}, nil
}

func (c *RealClient) mountTargets(ctx context.Context, fileSystemID string) ([]efstypes.MountTargetDescription, error) {
	out, err := c.efs.DescribeMountTargets(ctx, &efs.DescribeMountTargetsInput{
		FileSystemId: aws.String(fileSystemID),
	})
	if err != nil {
		return nil, err
	}
	return out.MountTargets, nil
}

// EnsureMountTarget creates the mount target of the file system in subnetID.
func (c *RealClient) EnsureMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroupIDs []string) (string, error) {
	find := func(ctx context.Context) (string, error) {
		targets, err := c.mountTargets(ctx, fileSystemID)
		if err != nil {
			return "", fmt.Errorf("failed to describe mount targets: %w", err)
		}
		for _, mt := range targets {
			if aws.ToString(mt.SubnetId) == subnetID {
				return aws.ToString(mt.MountTargetId), nil
			}
		}
		return "", nil
	}

	if id, err := find(ctx); err != nil || id != "" {
		return id, err
	}

	out, err := c.efs.CreateMountTarget(ctx, &efs.CreateMountTargetInput{
		FileSystemId:   aws.String(fileSystemID),
		SubnetId:       aws.String(subnetID),
		SecurityGroups: securityGroupIDs,
	})
	if err != nil {
		if IsAlreadyExists(err) {
			return find(ctx)
		}
		return "", fmt.Errorf("failed to create mount target in %s: %w", subnetID, err)
	}
	return aws.ToString(out.MountTargetId), nil
}

// WaitMountTargetsAvailable waits until every mount target is available.
func (c *RealClient) WaitMountTargetsAvailable(ctx context.Context, fileSystemID string) error {
	return pollUntil(ctx, c, c.timeouts.FileSystem, "mount targets of "+fileSystemID, func(ctx context.Context) (bool, error) {
		targets, err := c.mountTargets(ctx, fileSystemID)
		if err != nil {
			return false, err
		}
		for _, mt := range targets {
			if mt.LifeCycleState != efstypes.LifeCycleStateAvailable {
				return false, nil
			}
		}
		return true, nil
	})
}

// EnsureAccessPoint creates an access point that maps every client to the
// configured POSIX identity and root directory.
func (c *RealClient) EnsureAccessPoint(ctx context.Context, opts AccessPointOpts) (*AccessPoint, error) {
	return (&EnsureOperation[*AccessPoint]{
		Name:         opts.ClientToken,
		ResourceType: "access point",
		Get: func(ctx context.Context, token string) (*AccessPoint, error) {
			out, err := c.efs.DescribeAccessPoints(ctx, &efs.DescribeAccessPointsInput{
				FileSystemId: aws.String(opts.FileSystemID),
			})
			if err != nil {
				return nil, err
			}
			for _, ap := range out.AccessPoints {
				if aws.ToString(ap.ClientToken) == token &&
					ap.LifeCycleState != efstypes.LifeCycleStateDeleting &&
					ap.LifeCycleState != efstypes.LifeCycleStateDeleted {
					return &AccessPoint{ID: aws.ToString(ap.AccessPointId), ARN: aws.ToString(ap.AccessPointArn)}, nil
				}
			}
			return nil, nil
		},
		Create: func(ctx context.Context) (*AccessPoint, error) {
			out, err := c.efs.CreateAccessPoint(ctx, &efs.CreateAccessPointInput{
				ClientToken:  aws.String(opts.ClientToken),
				FileSystemId: aws.String(opts.FileSystemID),
				PosixUser: &efstypes.PosixUser{
					Uid: aws.Int64(opts.UID),
					Gid: aws.Int64(opts.GID),
				},
				RootDirectory: &efstypes.RootDirectory{
					Path: aws.String(opts.Path),
					CreationInfo: &efstypes.CreationInfo{
						OwnerUid:    aws.Int64(opts.UID),
						OwnerGid:    aws.Int64(opts.GID),
						Permissions: aws.String(opts.Permissions),
					},
				},
				Tags: efsTags(withName(opts.Tags, opts.ClientToken)),
			})
			if err != nil {
				return nil, err
			}
			return &AccessPoint{ID: aws.ToString(out.AccessPointId), ARN: aws.ToString(out.AccessPointArn)}, nil
		},
	}).Execute(ctx, c)
}
