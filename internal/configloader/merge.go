package configloader

import "github.com/yaklabco/djtree/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, so a flag can switch a feature on but not off
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Parser.MaxForks != 0 {
		result.Parser.MaxForks = override.Parser.MaxForks
	}
	if override.Parser.MaxSkip != 0 {
		result.Parser.MaxSkip = override.Parser.MaxSkip
	}
	if override.Parser.MaxBlockDepth != 0 {
		result.Parser.MaxBlockDepth = override.Parser.MaxBlockDepth
	}
	if override.Parser.VerifyIncremental {
		result.Parser.VerifyIncremental = true
	}
	if override.DetectLanguage {
		result.DetectLanguage = true
	}
	if override.Markdown.Enabled {
		result.Markdown.Enabled = true
	}
	if override.Session.Path != "" {
		result.Session.Path = override.Session.Path
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Markdown.Languages != nil {
		result.Markdown.Languages = override.Markdown.Languages
	}

	return &result
}
