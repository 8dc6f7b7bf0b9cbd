package holiday

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDefinitions = `{
    "Bayern": {
        "easter": {
            "Karfreitag": {
                "0329_1999_11": "11111111-2222-3333-4444-555555555555",
                "diff": "P-1D"
            }
        },
        "repeat": {
            "Neujahr": {
                "date": "0101",
                "uid": "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
            }
        }
    }
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDefinitions), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	defs, err := Load(writeSample(t))
	require.NoError(t, err)
	require.Contains(t, defs, "Bayern")

	region := defs["Bayern"]
	require.Contains(t, region.Repeat, "Neujahr")
	assert.Equal(t, "0101", region.Repeat["Neujahr"].Date)
	assert.Equal(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", region.Repeat["Neujahr"].IDs[FixedKey])

	require.Contains(t, region.Easter, "Karfreitag")
	assert.Equal(t, "P-1D", region.Easter["Karfreitag"].Diff)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", region.Easter["Karfreitag"].IDs["0329_1999_11"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSave_RoundTripsUnchanged(t *testing.T) {
	// Loading and saving without touching anything must reproduce the file
	// byte for byte: keys sorted, 4-space indent, opaque identifier keys
	// preserved. This is what keeps re-runs idempotent.
	path := writeSample(t)
	defs, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, Save(path, defs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDefinitions, string(data))
}

func TestSave_NewIdentifiersAppear(t *testing.T) {
	path := writeSample(t)
	defs, err := Load(path)
	require.NoError(t, err)

	defs["Bayern"].Easter["Karfreitag"].IDs.GetOrCreate("0330_2000_5", func() string { return "fresh-id" })
	require.NoError(t, Save(path, defs))

	reloaded, err := Load(path)
	require.NoError(t, err)
	ids := reloaded["Bayern"].Easter["Karfreitag"].IDs
	assert.Equal(t, "fresh-id", ids["0330_2000_5"])
	// The pre-existing identifier survives untouched.
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", ids["0329_1999_11"])
}

func TestUnmarshal_NoIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"X": {"repeat": {"Tag": {"date": "0501"}}}}`), 0o644))

	defs, err := Load(path)
	require.NoError(t, err)
	def := defs["X"].Repeat["Tag"]
	require.NotNil(t, def.IDs)
	def.IDs.GetOrCreate(FixedKey, func() string { return "id" })
	assert.Equal(t, "id", def.IDs[FixedKey])
}
