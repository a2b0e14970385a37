package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// processLine matches execution records only; registration records carry
// category= instead of wave= after the process name.
func processLine(namespace, process string) string {
	return fmt.Sprintf("namespace=%s process=%s wave=", namespace, process)
}

// AssertProcessRan checks that the text log of result records an execution
// of process in namespace. The harness must run at debug level.
func AssertProcessRan(t *testing.T, result *HarnessResult, namespace, process string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, processLine(namespace, process)),
		"expected an execution of '%s' in namespace '%s' in the logs", process, namespace,
	)
}

// AssertProcessNotRan is the negation of AssertProcessRan.
func AssertProcessNotRan(t *testing.T, result *HarnessResult, namespace, process string) {
	t.Helper()
	require.False(t,
		strings.Contains(result.LogOutput, processLine(namespace, process)),
		"unexpected execution of '%s' in namespace '%s' in the logs", process, namespace,
	)
}

// ProcessRuns counts the logged executions of process in namespace.
func ProcessRuns(result *HarnessResult, namespace, process string) int {
	return strings.Count(result.LogOutput, processLine(namespace, process))
}
