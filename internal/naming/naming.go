// Package naming computes destination paths for a batch and performs the
// backup rename that protects inputs from destructive overwrites.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallbackStem names outputs whose input had no usable file stem.
const fallbackStem = "optimized_image"

// BackupSuffix is appended to an input's full name when --backup renames
// it out of the way.
const BackupSuffix = ".backup"

// Options are the path-resolution inputs shared by every file in a run.
type Options struct {
	// OutputDir receives outputs when set; otherwise each output is
	// written alongside its input.
	OutputDir string

	// Recursive mirrors each input's path relative to the common input
	// root inside OutputDir instead of flattening. Only meaningful when
	// OutputDir is set.
	Recursive bool

	// Suffix is inserted immediately before the extension.
	Suffix string

	// Backup renames the input before any write begins.
	Backup bool
}

// Plan pairs an input file with its resolved destination.
//
// Two distinct inputs may resolve to the same destination (e.g. same
// stem in different directories, flattened into one output directory).
// Such collisions are not detected; the later write wins. This mirrors
// the observed upstream behavior and is a documented limitation, not a
// guarantee.
type Plan struct {
	Input  string
	Output string
}

// Resolve computes the destination for every input. extension is the
// codec's canonical extension and always replaces the input's own,
// lowercased. Every input gets a plan; callers filter out non-regular
// files before resolution.
func Resolve(inputs []string, extension string, opts Options) []Plan {
	var commonRoot string
	if opts.Recursive && opts.OutputDir != "" {
		commonRoot = commonDir(inputs)
	}

	ext := strings.ToLower(extension)
	plans := make([]Plan, 0, len(inputs))

	for _, input := range inputs {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if stem == "" || stem == "." {
			stem = fallbackStem
		}

		dir := filepath.Dir(input)
		if opts.OutputDir != "" {
			dir = opts.OutputDir
			if commonRoot != "" {
				if rel, err := filepath.Rel(commonRoot, filepath.Dir(input)); err == nil {
					dir = filepath.Join(opts.OutputDir, rel)
				}
			}
		}

		plans = append(plans, Plan{
			Input:  input,
			Output: filepath.Join(dir, stem+opts.Suffix+"."+ext),
		})
	}
	return plans
}

// commonDir returns the deepest directory containing every input.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	common := splitPath(filepath.Dir(paths[0]))
	for _, p := range paths[1:] {
		parts := splitPath(filepath.Dir(p))
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	return filepath.Join(common...)
}

func splitPath(p string) []string {
	clean := filepath.Clean(p)
	parts := strings.Split(clean, string(filepath.Separator))
	if strings.HasPrefix(clean, string(filepath.Separator)) {
		// Keep the root as its own component so Join restores it.
		parts[0] = string(filepath.Separator)
	}
	return parts
}

// Backup renames the input to its backup name. It runs before decode so
// the original bytes survive any later failure; rename (not copy) makes
// the protection atomic on the same filesystem.
func Backup(path string) (string, error) {
	backupPath := path + BackupSuffix
	if err := os.Rename(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return backupPath, nil
}
