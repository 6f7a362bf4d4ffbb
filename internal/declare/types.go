package declare

// FileName is the name of the declaration file inside a declaring package.
const FileName = "edl.yaml"

// GeneratedFileName is the file written next to the declaration by the generator.
const GeneratedFileName = "edl_gen.go"

// Declaration is the parsed contents of an edl.yaml file.
type Declaration struct {
	// Namespace overrides the namespace stamped on local descriptors.
	// Defaults to the Go package name.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	// Package overrides the package clause of the generated file.
	Package string `yaml:"package,omitempty" json:"package,omitempty"`
	// Requires is a semver constraint on the edlx version, e.g. ">= 0.2.0".
	Requires string `yaml:"requires,omitempty" json:"requires,omitempty"`
	// Use lists directories of other declaring packages, relative to the
	// declaration file, whose descriptors are re-exported first.
	Use []string `yaml:"use,omitempty" json:"use,omitempty"`
	// EDL lists local resource paths, relative to the declaration file.
	EDL []string `yaml:"edl,omitempty" json:"edl,omitempty"`
}

// IsEmpty reports whether the declaration contributes nothing.
func (d *Declaration) IsEmpty() bool {
	return len(d.Use) == 0 && len(d.EDL) == 0
}
