package config

type Feature int

const (
	FeatStrictReturn Feature = iota
	FeatNamedSlots
	FeatVerify
	FeatCount
)

type Warning int

const (
	WarnUnreachableCode Warning = iota
	WarnExtra
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

// Config carries the knobs the generator and the driver consult. The type
// widths are fixed properties of the language (32-bit signed int, 8-bit
// unsigned byte) and are recorded here so the one place that maps types
// does not hard-code them twice.
type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning
	IntBits    int
	ByteBits   int
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
		IntBits:    32,
		ByteBits:   8,
	}

	features := map[Feature]Info{
		FeatStrictReturn: {"strict-return", false, "Require an explicit 'return' at the end of every procedure body."},
		FeatNamedSlots:   {"named-slots", true, "Carry source variable names into IR value names."},
		FeatVerify:       {"verify", true, "Run the structural validator over the generated module."},
	}

	warnings := map[Warning]Info{
		WarnUnreachableCode: {"unreachable-code", true, "Warn about statements that can never execute."},
		WarnExtra:           {"extra", true, "Enable extra miscellaneous warnings."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// ApplyFlag toggles a feature or warning by its -F/-W spelled name, e.g.
// "Wno-unreachable-code" or "Fstrict-return". Unknown names are ignored so
// the driver can warn about them instead of failing.
func (c *Config) ApplyFlag(flag string) bool {
	name := flag
	enable := true
	isWarning := false

	switch {
	case len(name) > 1 && name[0] == 'W':
		name = name[1:]
		isWarning = true
	case len(name) > 1 && name[0] == 'F':
		name = name[1:]
	default:
		return false
	}
	if len(name) > 3 && name[:3] == "no-" {
		name, enable = name[3:], false
	}

	if isWarning {
		if name == "all" {
			for i := Warning(0); i < WarnCount; i++ {
				c.SetWarning(i, enable)
			}
			return true
		}
		if w, ok := c.WarningMap[name]; ok {
			c.SetWarning(w, enable)
			return true
		}
		return false
	}
	if f, ok := c.FeatureMap[name]; ok {
		c.SetFeature(f, enable)
		return true
	}
	return false
}
