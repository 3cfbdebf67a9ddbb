package provisioning

// Logger is the minimal printf-style logger phases write progress to.
type Logger interface {
	Printf(format string, v ...any)
}

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}
