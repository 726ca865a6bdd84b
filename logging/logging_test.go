package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bobuhiro11/pirqdump/logging"
)

func TestVerbosity(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		verbosity int
		expected  []bool
	}{
		{0, []bool{true, false, false}},
		{1, []bool{true, true, false}},
		{2, []bool{true, true, true}},
	} {
		var buf bytes.Buffer

		log := logging.New(&buf, tc.verbosity)
		log.Info("level0")
		log.V(1).Info("level1")
		log.V(2).Info("level2", "addr", "0xf0000")

		for i, want := range tc.expected {
			msg := []string{"level0", "level1", "level2"}[i]
			if actual := strings.Contains(buf.String(), msg); actual != want {
				t.Errorf("verbosity %d, %s: expected: %v, actual: %v", tc.verbosity, msg, want, actual)
			}
		}
	}
}
