// Package gen writes edl_gen.go for a declaring package. The generated file
// freezes the contents of every declared EDL file into string constants and
// defines the package's EDL function, so the descriptors no longer depend on
// the files once the package is built.
package gen
