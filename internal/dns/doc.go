// Package dns writes the controller's host records and the certificate
// validation records to the configured DNS provider.
//
// Two providers exist: Route53, which writes A and AAAA alias records
// pointing at the network load balancer, and Cloudflare, which writes a
// single unproxied CNAME. Records created through Cloudflare carry an owner
// comment so destroy can find them again.
package dns
