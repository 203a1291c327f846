package passpipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irtools/passpipe"
	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/manager"
)

// End-to-end coverage of the public front door. Unit tests live with the
// individual packages.
func TestParseRunPrint(t *testing.T) {
	ctx := ir.NewContext()
	defer ctx.Close()

	pm, err := passpipe.Parse("canonicalize,func(cse),symbol-dce", ctx)
	require.NoError(t, err)
	defer pm.Destroy()

	require.Equal(t, "any(canonicalize,func(cse),symbol-dce)", pm.String())

	mod, err := ir.Parse(`module (
  func @main (
    nop
    arith.const {value=1}
    arith.const {value=1}
    return
  )
  func @unused (
    return
  )
)`)
	require.NoError(t, err)

	require.NoError(t, pm.Run(mod))

	root := mod.Root()
	require.Len(t, root.Children, 1, "symbol-dce should drop @unused")
	main := root.Children[0]
	require.Len(t, main.Children, 2, "canonicalize and cse should drop two ops")
}

func TestOwnershipTransfer(t *testing.T) {
	ctx := ir.NewContext()
	defer ctx.Close()

	pm, err := passpipe.New("func", ctx)
	require.NoError(t, err)
	require.NoError(t, pm.Add("cse,sccp"))

	original := pm.String()

	capsule, err := pm.Capsule()
	require.NoError(t, err)

	pm2, err := manager.FromCapsule(capsule)
	require.NoError(t, err)
	defer pm2.Destroy()

	require.Equal(t, original, pm2.String())
	require.Error(t, pm.Add("cse"), "exported manager must reject mutation")

	pm.Destroy() // no-op, must not break pm2
	require.Equal(t, original, pm2.String())
}
