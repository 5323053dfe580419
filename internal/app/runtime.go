package app

import (
	"os"
	"sync"
)

// TestModeEnv makes both binaries return before touching storage, redis or
// the network. Test helpers set it to "1".
const TestModeEnv = "BUILDMAT_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(TestModeEnv) == "1"
})

// InTestMode reports whether the application should skip runtime side effects.
// The environment is read once per process.
func InTestMode() bool {
	return testMode()
}
