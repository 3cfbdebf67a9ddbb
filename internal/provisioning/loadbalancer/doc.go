// Package loadbalancer provisions the ALB and NLB pair in front of the
// controller and their listeners.
//
// The ALB terminates TLS for the web admin and guest portal ports and
// answers unmatched requests with a fixed 400 response. The NLB is the
// public entry point: its TCP listeners forward to the ALB, its UDP STUN
// listener and the optional TCP inform listener forward straight to the
// Fargate task by IP.
package loadbalancer
