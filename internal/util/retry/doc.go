// Package retry provides the two waiting primitives used by the provisioner.
//
// [Poller] is a bounded poller for readiness checks: it calls a [Check]
// immediately and then on a fixed start-to-start cadence until the check
// succeeds, returns an error, or ceil(timeout/interval) attempts are used up,
// in which case a [TimeoutError] is returned.
//
// [Backoff] retries a transiently failing call such as a helper download,
// doubling its pause after each failure. Errors wrapped with [Permanent] are
// not retried. Both wait through the same [Clock].
package retry
