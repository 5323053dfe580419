// Package testing switches the binaries into test mode when imported by a
// test, so calling main() from a test returns without side effects.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"

	"github.com/buildmat/buildmat/internal/app"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv(app.TestModeEnv, "1")
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be assigned from a package's own TestMain to force test mode.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
