package ctxbuilder

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	pyFromImport = regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\b`)
	pyImport     = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)

	jsImportFrom  = regexp.MustCompile(`import\s+(?:[\w*{}\s,]+\s+from\s+)?["']([^"']+)["']`)
	jsRequireCall = regexp.MustCompile(`require\(\s*["']([^"']+)["']\s*\)`)
)

// DiscoverDependencies extracts import targets from source for the
// languages loom understands (Python and JS/TS), mapping each to a
// path relative to either the importer's directory (relative imports) or
// the project root (bare module paths). Every discovered path is returned
// unresolved; the caller (Builder) is responsible for actually resolving
// and reading it.
func DiscoverDependencies(sourcePath, content string) []string {
	ext := filepath.Ext(sourcePath)
	switch ext {
	case ".py":
		return discoverPythonImports(content)
	case ".js", ".jsx", ".ts", ".tsx":
		return discoverJSImports(sourcePath, content)
	default:
		return nil
	}
}

func discoverPythonImports(content string) []string {
	var out []string
	for _, m := range pyFromImport.FindAllStringSubmatch(content, -1) {
		out = append(out, moduleToPyPath(m[1]))
	}
	for _, m := range pyImport.FindAllStringSubmatch(content, -1) {
		out = append(out, moduleToPyPath(m[1]))
	}
	return out
}

func moduleToPyPath(module string) string {
	return strings.ReplaceAll(module, ".", "/") + ".py"
}

func discoverJSImports(sourcePath, content string) []string {
	dir := filepath.Dir(sourcePath)
	var specs []string
	for _, m := range jsImportFrom.FindAllStringSubmatch(content, -1) {
		specs = append(specs, m[1])
	}
	for _, m := range jsRequireCall.FindAllStringSubmatch(content, -1) {
		specs = append(specs, m[1])
	}

	var out []string
	for _, spec := range specs {
		if strings.HasPrefix(spec, ".") {
			out = append(out, filepath.Join(dir, spec))
		} else {
			// Bare module path: resolved against project root by the
			// caller.
			out = append(out, spec)
		}
	}
	return out
}

// TestFileCandidates returns the canonical test-file locations for
// sourcePath: test_<name>.ext / <name>_test.ext next to the source, and
// the same two forms under tests/ or test/ at the project root.
func TestFileCandidates(sourcePath string) []string {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	siblings := []string{
		filepath.Join(dir, "test_"+name+ext),
		filepath.Join(dir, name+"_test"+ext),
	}

	var rooted []string
	for _, testDir := range []string{"tests", "test"} {
		rooted = append(rooted,
			filepath.Join(testDir, "test_"+name+ext),
			filepath.Join(testDir, name+"_test"+ext),
		)
	}

	return append(siblings, rooted...)
}
