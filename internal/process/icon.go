package process

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	appBundleRegex = regexp.MustCompile(`/([^/]+)\.app/Contents/`)
	homebrewRegex  = regexp.MustCompile(`/(?:opt/homebrew|usr/local|home/linuxbrew/\.linuxbrew)/Cellar/([^/]+)/`)
)

// Icon is the glyph shown next to a process. Its lifetime is scoped to the
// snapshot that resolved it.
type Icon struct {
	Glyph string
	Kind  string
	Label string // bundle or package name when one could be derived
}

// IconResolver maps an executable path to an icon.
// Implement this interface to teach the table about more kinds of programs.
type IconResolver interface {
	// Name identifies the resolver in debug logs
	Name() string

	// CanResolve returns true if this resolver recognises the executable
	CanResolve(exe string) bool

	// Resolve returns the icon, or nil to let later resolvers try
	Resolve(exe string) *Icon
}

// registeredResolvers holds the active resolvers in priority order.
var registeredResolvers = []IconResolver{
	&AppBundleResolver{},
	&HomebrewResolver{},
	&PackageManagerResolver{},
	&ScriptRunnerResolver{},
	&SystemBinaryResolver{},
}

// RegisterResolver adds a resolver ahead of the built-in ones.
func RegisterResolver(r IconResolver) {
	registeredResolvers = append([]IconResolver{r}, registeredResolvers...)
}

// ResolveIcon returns the icon for an executable path. An empty path has no
// icon; any other path at least gets the generic executable glyph.
func ResolveIcon(exe string) *Icon {
	icon, _ := resolveIcon(exe)
	return icon
}

// resolveIcon also names the resolver that produced the icon.
func resolveIcon(exe string) (*Icon, string) {
	if exe == "" {
		return nil, ""
	}
	norm := filepath.ToSlash(exe)
	for _, r := range registeredResolvers {
		if r.CanResolve(norm) {
			if icon := r.Resolve(norm); icon != nil {
				return icon, r.Name()
			}
		}
	}
	return &Icon{Glyph: "•", Kind: "executable"}, "generic"
}

// Summary describes the icon for the status footer, e.g. "homebrew: postgresql@16".
func (i *Icon) Summary() string {
	if i == nil {
		return ""
	}
	if i.Label == "" {
		return i.Kind
	}
	return i.Kind + ": " + i.Label
}

// AppBundleResolver handles macOS .app bundles and Windows Program Files installs.
type AppBundleResolver struct{}

func (r *AppBundleResolver) Name() string { return "app-bundle" }

func (r *AppBundleResolver) CanResolve(exe string) bool {
	return strings.Contains(exe, ".app/Contents/") ||
		strings.Contains(lower(exe), "/program files")
}

func (r *AppBundleResolver) Resolve(exe string) *Icon {
	if m := appBundleRegex.FindStringSubmatch(exe); len(m) >= 2 {
		return &Icon{Glyph: "◆", Kind: "app", Label: m[1]}
	}
	// Program Files/<Vendor or App>/...
	parts := strings.Split(exe, "/")
	for i, p := range parts {
		if strings.HasPrefix(lower(p), "program files") && i+1 < len(parts)-1 {
			return &Icon{Glyph: "◆", Kind: "app", Label: parts[i+1]}
		}
	}
	return nil
}

// HomebrewResolver handles kegs installed through Homebrew.
type HomebrewResolver struct{}

func (r *HomebrewResolver) Name() string { return "homebrew" }

func (r *HomebrewResolver) CanResolve(exe string) bool {
	return strings.Contains(exe, "/Cellar/")
}

func (r *HomebrewResolver) Resolve(exe string) *Icon {
	if m := homebrewRegex.FindStringSubmatch(exe); len(m) >= 2 {
		return &Icon{Glyph: "⬢", Kind: "homebrew", Label: m[1]}
	}
	return nil
}

// PackageManagerResolver handles binaries installed by language package managers.
type PackageManagerResolver struct{}

func (r *PackageManagerResolver) Name() string { return "package-manager" }

// packageDirs maps a path fragment to the package manager that owns it.
var packageDirs = []struct {
	fragment string
	manager  string
}{
	{"/node_modules/", "npm"},
	{"/.cargo/bin/", "cargo"},
	{"/go/bin/", "go"},
	{"/site-packages/", "pip"},
	{"/.local/bin/", "pip"},
	{"/.gem/", "gem"},
}

func (r *PackageManagerResolver) CanResolve(exe string) bool {
	for _, d := range packageDirs {
		if strings.Contains(exe, d.fragment) {
			return true
		}
	}
	return false
}

func (r *PackageManagerResolver) Resolve(exe string) *Icon {
	for _, d := range packageDirs {
		if strings.Contains(exe, d.fragment) {
			return &Icon{Glyph: "◇", Kind: "package", Label: d.manager}
		}
	}
	return nil
}

// ScriptRunnerResolver handles interpreters, wherever they are installed.
type ScriptRunnerResolver struct{}

func (r *ScriptRunnerResolver) Name() string { return "script-runner" }

// scriptRunners is a set of executables that typically run scripts.
var scriptRunners = map[string]bool{
	"node":    true,
	"deno":    true,
	"bun":     true,
	"python":  true,
	"python3": true,
	"ruby":    true,
	"perl":    true,
	"php":     true,
	"java":    true,
	"bash":    true,
	"zsh":     true,
	"sh":      true,
	"fish":    true,
	"pwsh":    true,
}

func (r *ScriptRunnerResolver) CanResolve(exe string) bool {
	return scriptRunners[executableBase(exe)]
}

func (r *ScriptRunnerResolver) Resolve(exe string) *Icon {
	return &Icon{Glyph: "λ", Kind: "script", Label: executableBase(exe)}
}

// SystemBinaryResolver handles binaries shipped with the operating system.
type SystemBinaryResolver struct{}

func (r *SystemBinaryResolver) Name() string { return "system" }

// systemPaths contains common system binary prefixes.
var systemPaths = []string{
	"/usr/bin/",
	"/usr/sbin/",
	"/usr/libexec/",
	"/usr/lib/",
	"/bin/",
	"/sbin/",
	"/System/",
	"c:/windows/",
}

func (r *SystemBinaryResolver) CanResolve(exe string) bool {
	l := lower(exe)
	for _, p := range systemPaths {
		if strings.HasPrefix(l, lower(p)) {
			return true
		}
	}
	return false
}

func (r *SystemBinaryResolver) Resolve(exe string) *Icon {
	return &Icon{Glyph: "■", Kind: "system"}
}

// executableBase returns the lower-case base name without a .exe suffix.
func executableBase(exe string) string {
	base := lower(filepath.Base(exe))
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".exe")
}
