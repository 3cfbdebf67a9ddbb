// Package wizard provides an interactive configuration wizard for unifictl.
//
// This package implements a TUI-based wizard that guides users through
// creating a stack configuration file. It uses charmbracelet/huh for
// form-based input collection.
//
// The main entry point is RunWizard, which runs the question groups and
// returns a WizardResult. Use BuildConfig to convert results to a Config
// struct, and WriteConfig to generate the YAML output file. DefaultResult
// gives the answers used by init --non-interactive.
package wizard
