// Package config provides the policy settings for a single checker run,
// read from environment variables and an optional YAML policy file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CheckSetting is the closed set of values accepted by CHECK_BACKPORT_LABELS.
type CheckSetting string

const (
	// CheckOff disables the backport label check (default)
	CheckOff CheckSetting = "false"
	// CheckOn enables the backport label check
	CheckOn CheckSetting = "true"
)

// MilestoneSetting is the closed set of values accepted by SET_MILESTONE.
type MilestoneSetting string

const (
	// MilestoneOff disables milestone resolution and assignment (default)
	MilestoneOff MilestoneSetting = "false"
	// MilestoneSet assigns the milestone only when none conflicts
	MilestoneSet MilestoneSetting = "true"
	// MilestoneOverwrite assigns the milestone even when one is already set
	MilestoneOverwrite MilestoneSetting = "overwrite"
)

// Environment variable names for the five settings
const (
	EnvCheckBackportLabels = "CHECK_BACKPORT_LABELS"
	EnvSetMilestone        = "SET_MILESTONE"
	EnvNoBackport          = "NO_BACKPORT"
	EnvTagPrefix           = "TAG_PREFIX"
	EnvLabelPrefix         = "LABEL_PREFIX"
)

// Defaults for the free-form string settings
const (
	DefaultNoBackport  = "no-backport"
	DefaultTagPrefix   = ""
	DefaultLabelPrefix = "backport-"
)

// checkValues and milestoneValues are the accepted value tables for the
// enumerated settings. Anything outside them is a configuration error.
var (
	checkValues = map[CheckSetting]bool{
		CheckOff: true,
		CheckOn:  true,
	}
	milestoneValues = map[MilestoneSetting]bool{
		MilestoneOff:       true,
		MilestoneSet:       true,
		MilestoneOverwrite: true,
	}
)

// Settings is the immutable policy configuration for a single run.
type Settings struct {
	CheckBackportLabels CheckSetting
	SetMilestone        MilestoneSetting
	NoBackport          string
	TagPrefix           string
	LabelPrefix         string
}

// fileSettings mirrors Settings for the optional YAML policy file. Pointer
// fields distinguish "absent" from an explicit empty string (TAG_PREFIX
// legitimately defaults to "").
type fileSettings struct {
	CheckBackportLabels *string `yaml:"check_backport_labels"`
	SetMilestone        *string `yaml:"set_milestone"`
	NoBackport          *string `yaml:"no_backport"`
	TagPrefix           *string `yaml:"tag_prefix"`
	LabelPrefix         *string `yaml:"label_prefix"`
}

// Load builds the settings for a run. Values come from defaults, then the
// YAML policy file when filename is non-empty, then environment variables.
// All values are lowercased on read; enumerated settings are validated after
// all sources are merged.
func Load(filename string) (*Settings, error) {
	settings := &Settings{
		CheckBackportLabels: CheckOff,
		SetMilestone:        MilestoneOff,
		NoBackport:          DefaultNoBackport,
		TagPrefix:           DefaultTagPrefix,
		LabelPrefix:         DefaultLabelPrefix,
	}

	if filename != "" {
		if err := applyFile(settings, filename); err != nil {
			return nil, err
		}
	}

	applyEnv(settings)

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// applyFile overlays the YAML policy file onto the settings
func applyFile(settings *Settings, filename string) error {
	data, err := os.ReadFile(filename) //nolint:gosec // Policy filename is from command-line flag
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}

	var file fileSettings
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	if file.CheckBackportLabels != nil {
		settings.CheckBackportLabels = CheckSetting(strings.ToLower(*file.CheckBackportLabels))
	}
	if file.SetMilestone != nil {
		settings.SetMilestone = MilestoneSetting(strings.ToLower(*file.SetMilestone))
	}
	if file.NoBackport != nil {
		settings.NoBackport = strings.ToLower(*file.NoBackport)
	}
	if file.TagPrefix != nil {
		settings.TagPrefix = strings.ToLower(*file.TagPrefix)
	}
	if file.LabelPrefix != nil {
		settings.LabelPrefix = strings.ToLower(*file.LabelPrefix)
	}

	return nil
}

// applyEnv overlays environment variables onto the settings
func applyEnv(settings *Settings) {
	if value, ok := lookup(EnvCheckBackportLabels); ok {
		settings.CheckBackportLabels = CheckSetting(value)
	}
	if value, ok := lookup(EnvSetMilestone); ok {
		settings.SetMilestone = MilestoneSetting(value)
	}
	if value, ok := lookup(EnvNoBackport); ok {
		settings.NoBackport = value
	}
	if value, ok := lookup(EnvTagPrefix); ok {
		settings.TagPrefix = value
	}
	if value, ok := lookup(EnvLabelPrefix); ok {
		settings.LabelPrefix = value
	}
}

// lookup reads an environment variable, lowercasing its value
func lookup(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	return strings.ToLower(value), ok
}

// validate checks the enumerated settings against their accepted value tables
func (s *Settings) validate() error {
	if !checkValues[s.CheckBackportLabels] {
		return fmt.Errorf("invalid value for %s: %s", EnvCheckBackportLabels, s.CheckBackportLabels)
	}
	if !milestoneValues[s.SetMilestone] {
		return fmt.Errorf("invalid value for %s: %s", EnvSetMilestone, s.SetMilestone)
	}
	return nil
}

// RunCheck reports whether the backport label check should run
func (s *Settings) RunCheck() bool {
	return s.CheckBackportLabels == CheckOn
}

// RunMilestone reports whether milestone resolution and assignment should run
func (s *Settings) RunMilestone() bool {
	return s.SetMilestone == MilestoneSet || s.SetMilestone == MilestoneOverwrite
}

// Overwrite reports whether an already-set milestone may be replaced
func (s *Settings) Overwrite() bool {
	return s.SetMilestone == MilestoneOverwrite
}

// WithCheck returns a copy of the settings with the label check enabled
func (s Settings) WithCheck() *Settings {
	s.CheckBackportLabels = CheckOn
	return &s
}

// WithMilestone returns a copy of the settings with milestone assignment
// enabled, preserving an already-configured overwrite mode
func (s Settings) WithMilestone() *Settings {
	if !s.RunMilestone() {
		s.SetMilestone = MilestoneSet
	}
	return &s
}
