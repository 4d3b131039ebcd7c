package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	t.Run("Should render injected build variables", func(t *testing.T) {
		orig := Version
		t.Cleanup(func() { Version = orig })
		Version = "v1.2.3"

		assert.Equal(t, "v1.2.3 (commit unknown, built unknown)", Get().String())
		assert.Equal(t, "storerate-cli/v1.2.3", UserAgent())
	})
}
