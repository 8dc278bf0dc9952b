// Package mocks provides hand-written test doubles for the generation
// backends, the token service and the account store.
//
// The mocks record their calls so tests can assert that an external service
// was, or was not, reached:
//
//	gen := mocks.NewMockGeneratorWithDefaultCards()
//	// ... exercise the pipeline ...
//	assert.Equal(t, 1, gen.CallCount())
//
// Function fields (GenerateFn, TranscribeFn, ValidateTokenFn, GetByIDFn)
// override the canned responses when a test needs custom behavior.
package mocks
