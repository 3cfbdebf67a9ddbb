// Package network provisions the VPC of a stack: three subnet tiers per
// availability zone, the internet gateway, NAT gateways and the route
// tables that tie them together.
package network
