package typos

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schedule = `<td><div class="pill"><strong>CyberPill:</strong> PAU_ el mensaje</div></td>
<td><div class="pill"><strong>CyberPill:</strong> &#191;Qui&#233;n est&#225; dentro de tu cuenta_<ul><li>x</li></ul></div></td>
<td><div class="pill"><strong>CyberPill:</strong> PAU_ el mensaje</div></td>
<td><div class="pill"><strong>CyberPill:</strong> No pagues. No negocies. No te calles_</div></td>`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApply_DefaultList(t *testing.T) {
	result := NewDefault().Apply(schedule)

	for _, r := range DefaultReplacements {
		assert.NotContains(t, result.Content, r.Old)
	}
	assert.Equal(t, 2, strings.Count(result.Content, "PAU: el mensaje"))
	assert.Contains(t, result.Content, "No pagues. No negocies. No te calles!")
	assert.Equal(t, 4, result.Total)
}

func TestApply_CountsMatchReplacements(t *testing.T) {
	pairs := []Replacement{
		{Old: "cuenta_", New: "cuenta?"},
		{Old: "solo_ el", New: "solo, el"},
	}
	content := "cuenta_ y cuenta_; solo_ el grupo; cuenta?"

	before := map[string]int{}
	for _, p := range pairs {
		before[p.Old] = strings.Count(content, p.Old)
		before[p.New] = strings.Count(content, p.New)
	}

	result := New(pairs).Apply(content)

	for _, p := range pairs {
		assert.Zero(t, strings.Count(result.Content, p.Old), "old %q remains", p.Old)
		assert.Equal(t, before[p.New]+before[p.Old], strings.Count(result.Content, p.New), "new %q", p.New)
	}

	require.Len(t, result.Changes, 2)
	assert.Equal(t, 2, result.Changes[0].Count)
	assert.Equal(t, 1, result.Changes[1].Count)
	assert.Equal(t, 3, result.Total)
}

func TestApply_SequentialPairs(t *testing.T) {
	f := New([]Replacement{
		{Old: "a_", New: "b_"},
		{Old: "b_", New: "c"},
	})

	result := f.Apply("a_")
	assert.Equal(t, "c", result.Content)
	assert.Equal(t, 2, result.Total)
}

func TestNew_IgnoresEmptyOld(t *testing.T) {
	f := New([]Replacement{{Old: "", New: "x"}, {Old: "y", New: "z"}})
	assert.Len(t, f.Replacements(), 1)
	assert.Equal(t, "z", f.Apply("y").Content)
}

func TestNewDefault_AppendsExtra(t *testing.T) {
	f := NewDefault(Replacement{Old: "Ciberseguridad_", New: "Ciberseguridad:"})
	assert.Len(t, f.Replacements(), len(DefaultReplacements)+1)
}

func TestFixFile_RewritesOnlyWhenChanged(t *testing.T) {
	path := writeFile(t, schedule)
	f := NewDefault()

	first, err := f.FixFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Total)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first.Content, string(data))

	// Make any rewrite observable through the modification time
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	second, err := f.FixFile(path, false)
	require.NoError(t, err)
	assert.Zero(t, second.Total)
	assert.Empty(t, second.Changes)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "file rewritten on idempotent run")
}

func TestFixFile_DryRun(t *testing.T) {
	path := writeFile(t, schedule)

	result, err := NewDefault().FixFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, schedule, string(data))
}

func TestFixFile_NotFound(t *testing.T) {
	_, err := NewDefault().FixFile(filepath.Join(t.TempDir(), "index.html"), false)
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, "index.html", NewDefault().Apply(schedule))

	out := buf.String()
	assert.Contains(t, out, "Replaced 2 occurrences of 'PAU_ el mensaje' with 'PAU: el mensaje'\n")
	assert.True(t, strings.HasSuffix(out, "\nFixed 4 typos in index.html.\n"), out)

	buf.Reset()
	WriteReport(&buf, "index.html", Result{})
	assert.Equal(t, "No typos found to fix.\n", buf.String())
}
