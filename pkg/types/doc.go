/*
Package types defines the shared data model for exercise validation.

A ValidationCriteria groups the checks for one exercise step and tags them
with the infrastructure they target (cluster, container, http, custom). Each
ValidationCheck carries exactly one execution mode: a shell command, an HTTP
request, or a programmatic CustomValidator. The union is enforced at
construction via Validate, so content errors surface when criteria are loaded
rather than mid-validation.

CheckResult and ValidationResult are the per-check and per-step outcomes.
Results are ephemeral: the engine produces them and the caller decides what to
display or persist.
*/
package types
