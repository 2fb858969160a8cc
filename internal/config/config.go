package config

// Config represents the application configuration
type Config struct {
	Accounts   AccountsConfig   `toml:"accounts"`
	Database   DatabaseConfig   `toml:"database"`
	Valuations ValuationsConfig `toml:"valuations"`
	Rating     RatingConfig     `toml:"rating"`
	Recommend  RecommendConfig  `toml:"recommend"`
}

// AccountsConfig names the two accounts. Real is the account the viewer
// interacts with others from; Shadow is the account used only to retrieve
// profile information, and may be left empty.
type AccountsConfig struct {
	Real   string `toml:"real"`
	Shadow string `toml:"shadow"`
}

// HasShadow reports whether a shadow account is configured.
func (a AccountsConfig) HasShadow() bool {
	return a.Shadow != ""
}

// DatabaseConfig contains snapshot database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ValuationsConfig contains valuation slot settings
type ValuationsConfig struct {
	Dir         string `toml:"dir"`
	DefaultSlot string `toml:"default_slot"`
}

// RatingConfig contains rating-pass settings
type RatingConfig struct {
	// Categories maps short keys to category labels; the keys are what the
	// operator picks during a pass.
	Categories   map[string]string `toml:"categories"`
	SaveInterval int               `toml:"save_interval"`
}

// RecommendConfig contains recommendation cutoffs
type RecommendConfig struct {
	FCutoff float64 `toml:"f_cutoff"`
	NCutoff int     `toml:"n_cutoff"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Accounts: AccountsConfig{},
		Database: DatabaseConfig{
			Path: "~/.local/share/matchsight/matchsight.db",
		},
		Valuations: ValuationsConfig{
			Dir:         "~/.local/share/matchsight/valuations",
			DefaultSlot: "prefs",
		},
		Rating: RatingConfig{
			Categories: map[string]string{
				"s": "sex",      // frequency, openness, interests
				"m": "mindset",  // ethics, religion, politics, science
				"p": "physical", // height, bodytype, picture rating
				"l": "life",     // activities, interests, staying up late
			},
			SaveInterval: 5,
		},
		Recommend: RecommendConfig{
			FCutoff: 0.06,
			NCutoff: 15,
		},
	}
}
