// Package config holds development-time constants and the user-facing settings surface for an
// Embergrade run: diagnostic rule levels and the execution environment the checker runs against.
package config

// Version is the checker's own version string, independent of the language it checks.
const Version = "0.1.0"

// IsTestMode and IsLSPMode are process-wide flags flipped once at startup by the host (CLI or
// language server), never mutated mid-run. They gate behaviors that only make sense in one host
// (e.g. suppressing ANSI color in test mode, hiding quantifiers in LSP hover text).
var (
	IsTestMode = false
	IsLSPMode  = false
)

// MaxAnalysisPasses bounds the fixed-point loop in the type analyzer . Chosen generously: real convergence for forward-referenced classes needs only a handful
// of passes; this cap exists purely to stop pathological
// non-convergence from spinning forever.
const MaxAnalysisPasses = 50

// BeatingUnknownThreshold is the pass count after which the analyzer starts ignoring type
// changes that differ from the previous pass only by the presence of Unknown in a union.
const BeatingUnknownThreshold = 10

// RuleLevel is the severity a diagnostic rule is configured to report at.
type RuleLevel string

const (
	LevelNone    RuleLevel = "none"
	LevelWarning RuleLevel = "warning"
	LevelError   RuleLevel = "error"
)

// RuleName identifies one of the configurable diagnostic rules.
type RuleName string

const (
	ReportUntypedBaseClass          RuleName = "reportUntypedBaseClass"
	ReportUntypedClassDecorator     RuleName = "reportUntypedClassDecorator"
	ReportUntypedFunctionDecorator  RuleName = "reportUntypedFunctionDecorator"
	ReportUnknownParameterType      RuleName = "reportUnknownParameterType"
	ReportUnknownLambdaType         RuleName = "reportUnknownLambdaType"
	ReportUnknownVariableType       RuleName = "reportUnknownVariableType"
	ReportUnknownMemberType         RuleName = "reportUnknownMemberType"
	ReportUnusedClass               RuleName = "reportUnusedClass"
	ReportUnusedFunction            RuleName = "reportUnusedFunction"
	ReportUnusedVariable            RuleName = "reportUnusedVariable"
	ReportUnusedImport               RuleName = "reportUnusedImport"
	ReportPrivateUsage              RuleName = "reportPrivateUsage"
	ReportConstantRedefinition      RuleName = "reportConstantRedefinition"
	ReportIncompatibleMethodOverride RuleName = "reportIncompatibleMethodOverride"
	ReportUnnecessaryIsInstance     RuleName = "reportUnnecessaryIsInstance"
	ReportCallInDefaultInitializer  RuleName = "reportCallInDefaultInitializer"
	ReportOptionalContextManager    RuleName = "reportOptionalContextManager"
)

// defaultRuleLevels mirrors a "basic" type-checking mode: unknown-type and privacy lints are
// warnings, everything else that's configurable defaults to warning, and the hard type errors
// (which aren't in this table because they aren't configurable) always report as errors.
var defaultRuleLevels = map[RuleName]RuleLevel{
	ReportUntypedBaseClass:           LevelWarning,
	ReportUntypedClassDecorator:      LevelWarning,
	ReportUntypedFunctionDecorator:   LevelWarning,
	ReportUnknownParameterType:       LevelWarning,
	ReportUnknownLambdaType:          LevelWarning,
	ReportUnknownVariableType:        LevelWarning,
	ReportUnknownMemberType:          LevelWarning,
	ReportUnusedClass:                LevelNone,
	ReportUnusedFunction:             LevelNone,
	ReportUnusedVariable:             LevelWarning,
	ReportUnusedImport:               LevelWarning,
	ReportPrivateUsage:               LevelWarning,
	ReportConstantRedefinition:       LevelError,
	ReportIncompatibleMethodOverride: LevelError,
	ReportUnnecessaryIsInstance:      LevelWarning,
	ReportCallInDefaultInitializer:   LevelWarning,
	ReportOptionalContextManager:     LevelWarning,
}

// ExecutionEnvironment describes the target the checked source is assumed to run under.
type ExecutionEnvironment struct {
	LanguageVersion string `yaml:"languageVersion"`
	Platform        string `yaml:"platform"`
}

// Settings is the user-facing, project-level configuration, loadable from a YAML project file
// (see internal/config/load.go) the way pyright loads pyrightconfig.json.
type Settings struct {
	Rules                map[RuleName]RuleLevel `yaml:"rules"`
	ExecutionEnvironment  ExecutionEnvironment    `yaml:"executionEnvironment"`
	Strict                bool                    `yaml:"strict"`
}

// Default returns settings seeded with defaultRuleLevels and a permissive execution environment.
func Default() *Settings {
	rules := make(map[RuleName]RuleLevel, len(defaultRuleLevels))
	for k, v := range defaultRuleLevels {
		rules[k] = v
	}
	return &Settings{
		Rules: rules,
		ExecutionEnvironment: ExecutionEnvironment{
			LanguageVersion: "latest",
			Platform:        "all",
		},
	}
}

// Level returns the configured level for a rule, falling back to its default if the settings
// don't mention it (e.g. a partially-specified project file).
func (s *Settings) Level(name RuleName) RuleLevel {
	if s == nil || s.Rules == nil {
		return defaultRuleLevels[name]
	}
	if lvl, ok := s.Rules[name]; ok {
		return lvl
	}
	return defaultRuleLevels[name]
}


