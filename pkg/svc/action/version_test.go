package action_test

import (
	"bytes"
	"testing"

	"github.com/bibiserv/bibigrid/internal/buildmeta"
	"github.com/bibiserv/bibigrid/pkg/svc/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	code, err := action.Version(&out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, buildmeta.String()+"\n", out.String())
}
