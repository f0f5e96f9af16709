package config

const (
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	// Historical owner pairs on the shared volume: staging keys belong to
	// the pipeline service account, archived keys to the archive group.
	defaultStagingUID = 1044
	defaultStagingGID = 1045
	defaultArchiveUID = 1054
	defaultArchiveGID = 1054
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Owner: Owner{
			StagingUID: defaultStagingUID,
			StagingGID: defaultStagingGID,
			ArchiveUID: defaultArchiveUID,
			ArchiveGID: defaultArchiveGID,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
