package config

import (
	"encoding/binary"
	"fmt"
	"net"
)

// SubnetTier is one of the three subnet layers of the VPC.
type SubnetTier string

// Subnet tiers. The order of SubnetTiers fixes each tier's address block.
const (
	// TierLB holds the load balancers and NAT gateways (public).
	TierLB SubnetTier = "lb"
	// TierECS holds the Fargate tasks (private, NAT egress).
	TierECS SubnetTier = "ecs"
	// TierEFS holds the EFS mount targets (isolated).
	TierEFS SubnetTier = "efs"
)

// SubnetTiers lists all tiers in address-allocation order.
var SubnetTiers = []SubnetTier{TierLB, TierECS, TierEFS}

// tierBlock is the number of /24 slots reserved per tier inside the /16.
const tierBlock = 16

// SubnetCIDR returns the /24 assigned to the given tier in availability
// zone index az. Tier t owns netnums [t*16, t*16+16).
func (n NetworkConfig) SubnetCIDR(tier SubnetTier, az int) (string, error) {
	idx := -1
	for i, t := range SubnetTiers {
		if t == tier {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("unknown subnet tier %q", tier)
	}
	if az < 0 || az >= tierBlock {
		return "", fmt.Errorf("availability zone index %d out of range", az)
	}
	return CIDRSubnet(n.CIDR, 8, idx*tierBlock+az)
}

// CIDRSubnet calculates a subnet address given a network address, a netmask size increase, and a subnet number.
// This mimics the behavior of Terraform's cidrsubnet function.
//
// Only IPv4 prefixes are supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}

	ip := network.IP.To4()
	if ip == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits
	if newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	if maxSubnets := 1 << newbits; netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	subnetSize := uint32(1) << (totalBits - newMaskSize)
	// #nosec G115
	base := binary.BigEndian.Uint32(ip) + uint32(netnum)*subnetSize

	out := make(net.IP, 4)
	binary.BigEndian.PutUint32(out, base)
	return fmt.Sprintf("%s/%d", out.String(), newMaskSize), nil
}
