// Package cli defines the Cobra command tree for the edlx CLI. Each file
// registers one top-level command with the root command. Commands load the
// declaration graph through package resolve and delegate the work to gen,
// bundle and declare; they only handle flags, output formatting and logging.
package cli
