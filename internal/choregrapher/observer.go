package choregrapher

import (
	"time"

	"github.com/specialistvlad/choregrapher/internal/process"
)

// Observer receives timing and outcome of every process execution and every
// step. Implementations must be safe for concurrent use when several
// namespaces run concurrently.
type Observer interface {
	ObserveProcess(namespace, name string, mode process.Mode, d time.Duration, err error)
	ObserveStep(namespace string, focus int, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveProcess(string, string, process.Mode, time.Duration, error) {}
func (nopObserver) ObserveStep(string, int, time.Duration, error)                     {}
