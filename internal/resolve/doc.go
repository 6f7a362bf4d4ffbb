// Package resolve loads the graph of declaring packages rooted at a
// directory. Each node carries its parsed declaration, the Go package and
// import path the generator needs, and its dependencies in declaration
// order. Collect reads the declared files and assembles the same descriptor
// sequence that the node's generated EDL function returns.
package resolve
