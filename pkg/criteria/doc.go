// Package criteria loads validation criteria documents from exercise content.
//
// A document is a YAML (or JSON) file binding step identifiers to their
// validation criteria. Documents are validated fully at load time: unknown
// criteria types, empty check lists, and checks that declare zero or multiple
// execution modes are all rejected before anything runs.
package criteria
