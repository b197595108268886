package naming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		ext    string
		opts   Options
		want   []Plan
	}{
		{
			name:   "alongside input with extension replaced",
			inputs: []string{filepath.Join("photos", "cat.png")},
			ext:    "webp",
			want: []Plan{
				{Input: filepath.Join("photos", "cat.png"), Output: filepath.Join("photos", "cat.webp")},
			},
		},
		{
			name:   "extension lowercased",
			inputs: []string{"cat.png"},
			ext:    "JPG",
			want:   []Plan{{Input: "cat.png", Output: "cat.jpg"}},
		},
		{
			name:   "suffix before extension",
			inputs: []string{"cat.png"},
			ext:    "jpg",
			opts:   Options{Suffix: "@updated"},
			want:   []Plan{{Input: "cat.png", Output: "cat@updated.jpg"}},
		},
		{
			name:   "flatten into output directory",
			inputs: []string{filepath.Join("a", "one.png"), filepath.Join("b", "two.png")},
			ext:    "jpg",
			opts:   Options{OutputDir: "out"},
			want: []Plan{
				{Input: filepath.Join("a", "one.png"), Output: filepath.Join("out", "one.jpg")},
				{Input: filepath.Join("b", "two.png"), Output: filepath.Join("out", "two.jpg")},
			},
		},
		{
			name: "recursive mirrors structure below common root",
			inputs: []string{
				filepath.Join("pics", "a", "one.png"),
				filepath.Join("pics", "b", "c", "two.png"),
			},
			ext:  "jpg",
			opts: Options{OutputDir: "out", Recursive: true},
			want: []Plan{
				{Input: filepath.Join("pics", "a", "one.png"), Output: filepath.Join("out", "a", "one.jpg")},
				{Input: filepath.Join("pics", "b", "c", "two.png"), Output: filepath.Join("out", "b", "c", "two.jpg")},
			},
		},
		{
			name:   "recursive with single input keeps directory flat",
			inputs: []string{filepath.Join("pics", "a", "one.png")},
			ext:    "jpg",
			opts:   Options{OutputDir: "out", Recursive: true},
			want: []Plan{
				{Input: filepath.Join("pics", "a", "one.png"), Output: filepath.Join("out", "one.jpg")},
			},
		},
		{
			name:   "empty stem falls back",
			inputs: []string{".png"},
			ext:    "jpg",
			want:   []Plan{{Input: ".png", Output: "optimized_image.jpg"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.inputs, tt.ext, tt.opts))
		})
	}
}

func TestResolve_FlattenCollisionLastWriterWins(t *testing.T) {
	// Same stem in different directories flattens to one destination.
	// Collisions are not detected; both plans point at the same output.
	plans := Resolve(
		[]string{filepath.Join("a", "cat.png"), filepath.Join("b", "cat.png")},
		"jpg",
		Options{OutputDir: "out"},
	)
	require.Len(t, plans, 2)
	require.Equal(t, plans[0].Output, plans[1].Output)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(input, []byte("original"), 0o644))

	backupPath, err := Backup(input)
	require.NoError(t, err)
	require.Equal(t, input+BackupSuffix, backupPath)

	// The original path is gone; the bytes survive at the backup path.
	_, err = os.Stat(input)
	require.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	require.Equal(t, []byte("original"), data)
}

func TestBackup_MissingInput(t *testing.T) {
	_, err := Backup(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
