// Package declare handles parsing and validation of edl.yaml declaration
// files. A declaration names the EDL files a Go package contributes and the
// other declaring packages whose EDL files it re-exports. Validation runs
// against the JSON Schema embedded from schema/edl.schema.json.
package declare
