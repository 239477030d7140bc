package meta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evscript/internal/bytecode"
)

const sampleMeta = `
version: 1.2.0
methods:
  - name: noop
  - name: show_text
    params:
      - {name: textbox, type: int}
      - {name: text, type: string}
  - name: start_thread
    params:
      - {name: index, type: int}
      - {name: addr, type: int, branch: gosub}
      - {name: result, type: int, direction: out}
enums:
  Facing: [north, east, south, west]
`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(sampleMeta))
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, 3, m.MethodCount())

	assert.True(t, m.Param(1, 1).IsString())
	assert.Equal(t, BranchSubroutine, m.Param(2, 1).Branch.Normalize())
	assert.Equal(t, bytecode.Out, m.Param(2, 2).Dir())
	assert.True(t, m.Param(2, 0).Branch.IsNone())
	assert.Equal(t, "p5", m.Param(2, 5).Name)

	name, ok := m.EnumName("Facing", 2)
	assert.True(t, ok)
	assert.Equal(t, "south", name)
	_, ok = m.EnumName("Facing", 4)
	assert.False(t, ok)

	method, ok := m.Method(2)
	require.True(t, ok)
	assert.Equal(t, "start_thread", method.Name)
	_, ok = m.Method(3)
	assert.False(t, ok)
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode(strings.NewReader("methods:\n  - name: x\n    params:\n      - {name: a, type: int, branch: sideways}\n"))
	assert.ErrorContains(t, err, "unknown branch")

	_, err = Decode(strings.NewReader("methods: []\nbogus: 1\n"))
	assert.Error(t, err)

	m, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, m.MethodCount())
}

func TestNilMeta(t *testing.T) {
	var m *Meta
	assert.Zero(t, m.MethodCount())
	_, ok := m.EnumName("x", 0)
	assert.False(t, ok)
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.2.0.yaml", "1.10.0.yml", "snapshot.json", "dev.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"methods": [{"name": "noop"}]}`), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2.0.0.yaml"), 0o755))

	store := Store{Dir: dir}
	versions, err := store.Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshot", "1.10.0", "1.2.0", "dev"}, versions)

	m, err := store.Load("")
	require.NoError(t, err)
	assert.Equal(t, Snapshot, m.Version)
	assert.Equal(t, 1, m.MethodCount())

	_, err = store.Load("9.9.9")
	assert.ErrorIs(t, err, ErrNoSuchVersion)
}

func TestLoadHints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extra_branches: [0x40, 96]\ntable_lengths:\n  0x100: 3\n"), 0o644))

	h, err := LoadHints(path)
	require.NoError(t, err)
	assert.Equal(t, []int{0x40, 96}, h.ExtraBranches)
	assert.Equal(t, map[int]int{0x100: 3}, h.TableLengths)
}

func TestSchema(t *testing.T) {
	b, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"meta"`)
	assert.Contains(t, string(b), "extra_branches")
}
