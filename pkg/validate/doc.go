/*
Package validate is the core of kubelab: it turns a declarative set of checks
for one exercise step into an actionable pass/fail result against live
infrastructure.

# Validation Flow

A ValidateStep call moves through four phases:

	Gating → Executing → Aggregating → Done

 1. Gating: criteria targeting the cluster or the container runtime first
    probe availability. Probe results are cached per Engine instance so a
    run with many checks probes once; ResetAvailabilityCache forces a fresh
    probe after the learner fixes their environment. Unreachable
    infrastructure short-circuits with fixed remediation text and never
    enters the check loop.
 2. Executing: checks run sequentially in declared order, each wrapped in
    the retry policy with IsTransient as the retryability predicate. A check
    that completes with a failure is recorded immediately and never retried;
    only transient infrastructure errors burn retry budget.
 3. Aggregating: the step passes when every check passed. Each check
    contributes exactly one detail line.
 4. Suggestion synthesis: failure messages are matched against an ordered
    table of known error signatures (not-found, pending, image-pull,
    crash-loop, permission-denied, connection/timeout) and the first match
    produces a remediation block; a generic block is the fallback, so a
    failing result always carries suggestions.

ValidateStep never returns an error and never panics through to the caller:
every failure mode, including internal bugs, resolves to a ValidationResult
with a message the UI can show.

The package also carries the narrow boolean assertion helpers the exercise
UI uses for targeted questions (DeploymentPodsRunning, ConfigMapHasKeys,
PVCBound, ImageHasTags, ...). These are thin compositions over the gateways
and sit outside the ValidateStep contract.
*/
package validate
