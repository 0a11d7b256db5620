// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - Mock*: testify mocks for the provisioning collaborators
//   - MemoryStore, FakeClock: in-memory cluster store and a clock that never sleeps
//   - NewContext: a provisioning.Context wired to the above
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithDataDir(t.TempDir()).
//	    WithPollPolicy(30*time.Minute, 5*time.Minute).
//	    Build()
package testing
