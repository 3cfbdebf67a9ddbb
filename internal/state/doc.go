// Package state persists the outputs of an apply.
//
// AWS holds the authoritative state of every resource; this package only
// records what the last apply produced so that status can print it without
// calling AWS and destroy knows which DNS records to remove. Outputs are
// stored by one of three backends selected in the configuration:
//
//   - file: a YAML document on local disk (default)
//   - s3: a YAML object in a versioned, private bucket created on demand
//   - sqlite: a local database that also keeps the history of applies
package state
