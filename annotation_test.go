package vogprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotationsVOG = `#GroupName	ProteinCount	SpeciesCount	FunctionalCategory	ConsensusFunctionalDescription
VOG0001	3	2	Xr	sp|P03795|Y28_BPT7 Protein 2.8
VOG0002	2	2	Xu	hypothetical protein
`

func TestReadAnnotations(t *testing.T) {
	tbl, err := ReadAnnotations(strings.NewReader(annotationsVOG), VOG)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	desc, err := tbl.Description(GroupID{VOG, "VOG0001"})
	require.NoError(t, err)
	assert.Equal(t, "sp|P03795|Y28_BPT7 Protein 2.8", desc)

	assert.True(t, tbl.Has("VOG0002"))
	assert.False(t, tbl.Has("VOG0404"))
}

func TestDescriptionUnknownGroupIsEmpty(t *testing.T) {
	tbl, err := ReadAnnotations(strings.NewReader(annotationsVOG), VOG)
	require.NoError(t, err)

	desc, err := tbl.Description(GroupID{VOG, "VOG9999"})
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestDescriptionWrongNamespace(t *testing.T) {
	tbl, err := ReadAnnotations(strings.NewReader(annotationsVOG), VOG)
	require.NoError(t, err)

	_, err = tbl.Description(GroupID{PVOG, "VOG0001"})
	var nsErr *NamespaceError
	require.ErrorAs(t, err, &nsErr)
}

func TestReadAnnotationsMalformed(t *testing.T) {
	_, err := ReadAnnotations(strings.NewReader("VOG0001\n"), VOG)
	assert.Error(t, err)
}
