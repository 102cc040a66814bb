package cli

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain fails the package when a goroutine outlives the tests.
// Commands hold their container only for the length of one invocation.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
