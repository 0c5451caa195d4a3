package identity_test

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyTestMain runs the tests and fails the binary if goroutines outlive them.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
