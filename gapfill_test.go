package vogprep

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill(t *testing.T) {
	lookup, err := ReadTableLookup(strings.NewReader(
		"YP_1.1\tportal protein\nYP_2.1\tterminase\n"))
	require.NoError(t, err)

	diag := NewDiagnostics(nil)
	res, err := Fill(PVOG,
		[]string{"YP_2.1", "YP_404.1", "YP_1.1", "YP_2.1"}, lookup, diag)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"YP_1.1": "portal protein",
		"YP_2.1": "terminase",
	}, res.Descriptions)
	assert.Equal(t, []string{"YP_404.1"}, res.Unresolved)
	assert.Equal(t, 0, res.Failures)
	assert.Equal(t, 2, diag.FilledCount)
	assert.Equal(t, 1, diag.UnresolvedCount)
}

func TestFillLookupFailureIsAMiss(t *testing.T) {
	boom := errors.New("connection reset")
	lookup := LookupFunc(func(id string) (string, bool, error) {
		if id == "YP_9.1" {
			return "", false, boom
		}
		return "tail fiber", true, nil
	})

	buf := new(bytes.Buffer)
	diag := NewDiagnostics(buf)
	res, err := Fill(PVOG, []string{"YP_9.1", "YP_8.1"}, lookup, diag)
	require.NoError(t, err)
	require.NoError(t, diag.Flush())

	assert.Equal(t, 1, res.Failures)
	assert.Equal(t, []string{"YP_9.1"}, res.Unresolved)
	assert.Equal(t, "tail fiber", res.Descriptions["YP_8.1"])
	// The failure is surfaced, not swallowed.
	assert.Contains(t, buf.String(), "LOOKUP-FAILED\tpVOG\tYP_9.1")
	assert.Contains(t, buf.String(), "UNRESOLVED\tpVOG\tYP_9.1")
}

func TestFillDeterministicOrder(t *testing.T) {
	var queried []string
	lookup := LookupFunc(func(id string) (string, bool, error) {
		queried = append(queried, id)
		return "", false, nil
	})

	_, err := Fill(VOG, []string{"c", "a", "b"}, lookup, NewDiagnostics(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, queried)
}

func TestReadTableLookupMalformed(t *testing.T) {
	_, err := ReadTableLookup(strings.NewReader("no-tab-here\n"))
	assert.Error(t, err)
}
