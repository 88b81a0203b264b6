package vogprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const membersVOG = `#GroupName	ProteinCount	SpeciesCount	FunctionalCategory	Proteins
VOG0002	2	2	Xu	1034346.YP_009173866.1,10665.NP_049616.1
VOG0001	3	2	Xr	1034346.YP_009173866.1,90963.YP_024277.1,10665.NP_049616.1
VOG0003	1	1	Xs	90963.YP_024277.1
`

func TestReadMembers(t *testing.T) {
	tbl, err := ReadMembers(strings.NewReader(membersVOG), VOG)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	groups := tbl.Resolve("90963.YP_024277.1")
	require.Len(t, groups, 2)
	assert.Equal(t, GroupID{VOG, "VOG0001"}, groups[0])
	assert.Equal(t, GroupID{VOG, "VOG0003"}, groups[1])
}

func TestResolveAbsentIsEmpty(t *testing.T) {
	tbl, err := ReadMembers(strings.NewReader(membersVOG), VOG)
	require.NoError(t, err)

	assert.Empty(t, tbl.Resolve("no-such-id"))
	// Exact match only: no case folding, no trimming.
	assert.Empty(t, tbl.Resolve("10665.np_049616.1"))
	assert.Empty(t, tbl.Resolve(" 10665.NP_049616.1"))
}

func TestResolveOrderIsAscending(t *testing.T) {
	// The same membership expressed in a different line order must
	// resolve identically.
	shuffled := "VOG0003\t90963.YP_024277.1\nVOG0001\t90963.YP_024277.1\n"
	tbl, err := ReadMembers(strings.NewReader(shuffled), VOG)
	require.NoError(t, err)

	groups := tbl.Resolve("90963.YP_024277.1")
	require.Len(t, groups, 2)
	assert.Equal(t, "VOG0001", groups[0].ID)
	assert.Equal(t, "VOG0003", groups[1].ID)
}

func TestDuplicateAssociationsAreIdempotent(t *testing.T) {
	// Reprocessing the same association must not inflate membership.
	doubled := membersVOG + membersVOG
	tbl, err := ReadMembers(strings.NewReader(doubled), VOG)
	require.NoError(t, err)

	assert.Len(t, tbl.Resolve("90963.YP_024277.1"), 2)
	assert.Len(t, tbl.Resolve("10665.NP_049616.1"), 2)
}

func TestTwoColumnLayout(t *testing.T) {
	tbl, err := ReadMembers(
		strings.NewReader("VOG0009\tA.1,B.2\n"), PVOG)
	require.NoError(t, err)

	require.Len(t, tbl.Resolve("A.1"), 1)
	assert.Equal(t, GroupID{PVOG, "VOG0009"}, tbl.Resolve("A.1")[0])
	assert.True(t, tbl.HasGroup("VOG0009"))
	assert.False(t, tbl.HasGroup("VOG0001"))
}

func TestNamespaceIsolation(t *testing.T) {
	// The same identifier strings in both namespaces: resolving in the
	// wrong namespace must fail loudly, never silently return the other
	// lineage's groups.
	vog, err := ReadMembers(strings.NewReader("VOG0001\tYP_1.1\n"), VOG)
	require.NoError(t, err)
	pvog, err := ReadMembers(strings.NewReader("VOG0001\tYP_1.1\n"), PVOG)
	require.NoError(t, err)

	groups, err := vog.ResolveIn(VOG, "YP_1.1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, VOG, groups[0].NS)

	_, err = vog.ResolveIn(PVOG, "YP_1.1")
	var nsErr *NamespaceError
	require.ErrorAs(t, err, &nsErr)
	assert.Equal(t, VOG, nsErr.Table)
	assert.Equal(t, PVOG, nsErr.Asked)

	_, err = pvog.ResolveIn(VOG, "YP_1.1")
	require.ErrorAs(t, err, &nsErr)
}

func TestReadMembersMalformed(t *testing.T) {
	_, err := ReadMembers(strings.NewReader("just-one-field\n"), VOG)
	assert.Error(t, err)
}
