// Package storage provisions the EFS file system that persists the
// controller's /config directory across task replacements.
package storage
