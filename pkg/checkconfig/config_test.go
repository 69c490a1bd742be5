package checkconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigHasFullCheckingAndCoreLore(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "core", cfg.Lore)
	assert.True(t, cfg.Settings.CheckOccurrences)
	assert.NotEmpty(t, cfg.Settings.Exclude)
}

func TestLoadConfigParsesYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".checkir.yaml")
	contents := "version: 2\nlore: gpu\nsettings:\n  check_occurrences: false\n  exclude:\n    - \"build/**\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, "gpu", cfg.Lore)
	assert.False(t, cfg.Settings.CheckOccurrences)
	assert.Equal(t, []string{"build/**"}, cfg.Settings.Exclude)
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFindConfigWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte("version: 1\n"), 0o644))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, configFileName), found)
}

func TestFindConfigReturnsEmptyWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	found, err := FindConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "", found)
}

func TestMergeConfigsOverridesCheckOccurrencesDirectly(t *testing.T) {
	base := DefaultConfig()
	override := &Config{Settings: SettingsConfig{CheckOccurrences: false}}

	merged := MergeConfigs(base, override)
	assert.False(t, merged.Settings.CheckOccurrences, "override must be able to explicitly disable occurrence checking, not just OR with base")
}

func TestMergeConfigsKeepsBaseWhenOverrideFieldsAreZero(t *testing.T) {
	base := DefaultConfig()
	override := &Config{}

	merged := MergeConfigs(base, override)
	assert.Equal(t, base.Version, merged.Version)
	assert.Equal(t, base.Lore, merged.Lore)
	assert.Equal(t, base.Settings.Exclude, merged.Settings.Exclude)
}

func TestMergeConfigsOverridesExcludeAndFailOnWhenNonEmpty(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Settings: SettingsConfig{
			Exclude: []string{"scratch/**"},
			FailOn:  []string{"UseAfterConsume"},
		},
	}

	merged := MergeConfigs(base, override)
	assert.Equal(t, []string{"scratch/**"}, merged.Settings.Exclude)
	assert.Equal(t, []string{"UseAfterConsume"}, merged.Settings.FailOn)
}

func TestShouldExcludeMatchesGlobAgainstBaseName(t *testing.T) {
	cfg := &Config{Settings: SettingsConfig{Exclude: []string{"*.generated.json"}}}
	assert.True(t, cfg.ShouldExclude("pkg/ir/foo.generated.json"))
	assert.False(t, cfg.ShouldExclude("pkg/ir/foo.json"))
}

func TestShouldFailOnEmptyListFailsEverything(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.ShouldFailOn("UseAfterConsume"))
}

func TestShouldFailOnRespectsExplicitList(t *testing.T) {
	cfg := &Config{Settings: SettingsConfig{FailOn: []string{"ReturnAliased"}}}
	assert.True(t, cfg.ShouldFailOn("ReturnAliased"))
	assert.False(t, cfg.ShouldFailOn("UseAfterConsume"))
}
