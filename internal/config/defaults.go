package config

const (
	defaultStateDir       = "~/.local/share/chorus"
	defaultLogDir         = "~/.local/share/chorus/logs"
	defaultAudioDir       = "audio"
	defaultReferencesDir  = "references"
	defaultEstimationsDir = "estimations"
	defaultFeature        = "hpcp"
	defaultBoundariesID   = "gt"
	defaultWorkers        = 4
	defaultSeed           = 123
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Features enumerates the supported feature-extraction flavors.
var Features = []string{"hpcp", "tonnetz", "mfcc"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Dataset: Dataset{
			AudioDir:       defaultAudioDir,
			ReferencesDir:  defaultReferencesDir,
			EstimationsDir: defaultEstimationsDir,
		},
		Processing: Processing{
			Feature:      defaultFeature,
			BoundariesID: defaultBoundariesID,
			Workers:      defaultWorkers,
			Seed:         defaultSeed,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
