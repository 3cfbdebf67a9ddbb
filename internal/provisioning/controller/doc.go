// Package controller provisions the Unifi controller itself: the ALB
// target groups and host-header rules, the DNS records for its hostname,
// the task security group, log group and execution role, the Fargate task
// definition and the service that ties them to the load balancers.
package controller
