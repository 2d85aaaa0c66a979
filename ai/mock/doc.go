// Package mock provides test double implementations of ai.Embedder.
//
// The mocks let seeding tests run without an embedding service and give them
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Default behavior: deterministic vectors derived from the text hash
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// First call fails, the retry succeeds
//	flaky := mock.NewFailingEmbedder(1, errors.New("timeout"))
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
