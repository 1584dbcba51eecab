package constants

const (
	MinPlaybackSpeed     = 0.25
	MaxPlaybackSpeed     = 2.0
	DefaultPlaybackSpeed = 1.0

	// used when notes are typed in without timing
	DefaultVelocity   = 100
	DefaultDurationMs = 1000

	DefaultInstrument  = "acoustic_grand_piano"
	DefaultMelodiesDir = "./public/audio/melodies"
	DefaultAddr        = ":8080"
	DefaultDynamoTable = "eartrainer-progress"
)
