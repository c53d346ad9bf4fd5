package config

// Volume categories for selective cleanup by the "clean" command.
// Each category groups the named Docker volumes the sandbox creates, so
// users can wipe caches without losing credentials (or vice versa).
var volumeCategories = map[string][]string{
	"credentials": {
		"ai-dev-claude-config",
		"ai-dev-gemini-config",
		"ai-dev-codex-config",
		"ai-dev-opencode-config",
		"ai-dev-gh-config",
	},
	"tools": {
		"ai-dev-azure-config",
		"ai-dev-pulumi-config",
		"ai-dev-tools-cache",
	},
	"cache": {
		"ai-dev-uv-cache",
		"ai-dev-vscode-server",
	},
	"data": {
		"ai-dev-opencode-data",
		"ai-dev-vscode-workspaces",
	},
}

// VolumeCategories lists the known cleanup category names in a stable
// order for help text and validation.
func VolumeCategories() []string {
	return []string{"credentials", "tools", "cache", "data"}
}

// VolumesByCategory returns the volume names defined for a category.
// Unknown categories yield nil; existence on the Docker host is checked
// separately by the caller.
func VolumesByCategory(category string) []string {
	vols := volumeCategories[category]
	out := make([]string, len(vols))
	copy(out, vols)
	return out
}

// AllVolumes returns every known volume name across all categories,
// in category order.
func AllVolumes() []string {
	var out []string
	for _, cat := range VolumeCategories() {
		out = append(out, volumeCategories[cat]...)
	}
	return out
}
