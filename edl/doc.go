// Package edl defines the EDL descriptor and the aggregation used by every
// package that contributes Enclave Definition Language files to a build.
//
// A contributing package declares its resources in an edl.yaml file and runs
// `edlx generate` (usually through a //go:generate directive). The generator
// freezes each file's contents into edl_gen.go and emits a single function:
//
//	func EDL() []edl.EDL
//
// which returns the descriptors of every declared dependency, in declaration
// order, followed by the package's own descriptors. The topmost package of a
// build calls its EDL function and hands the result to a merge step such as
// package bundle.
package edl
