/*
Package cluster wraps the Kubernetes API for the validation engine.

The Gateway exposes exactly what validation needs: an availability probe
(a cheap namespace list), generic resource get/list across the kinds exercise
content references, and pod exec. Resource type strings accept kubectl short
forms (pvc, hpa, svc, ...) via NormalizeKind.

Lookup semantics are deliberate: GetResource returns (nil, nil) for a missing
resource so callers can distinguish "not there yet" (a normal state while a
learner works through an exercise) from an API failure.
*/
package cluster
