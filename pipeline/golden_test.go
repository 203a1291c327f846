package pipeline

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// Golden test pinning the canonical printed form of a representative
// pipeline. Update with:
//
//	go test ./pipeline -run TestPrint_Golden -update
func TestPrint_Golden(t *testing.T) {
	nodes, err := Parse(
		" func ( canonicalize {top-down=false} , cse ) , module ( inline , sccp ) , symbol-dce {keep=exported} ",
		"any", nil)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "canonical_pipeline", []byte(Print("any", nodes)))
}
