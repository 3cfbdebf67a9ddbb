// Package certificate provisions the ACM certificate served by the ALB
// HTTPS listeners. Validation records are written through the configured
// DNS provider and the phase blocks until ACM reports the certificate as
// issued.
package certificate
