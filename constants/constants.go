package constants

import "os"

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// Playable range of the target instrument as pitch values (12*octave +
// alteration + step semitone, so middle C is 48). A1 through C7.
const PitchFloor = 21
const PitchCeiling = 84

// An octave is the narrowest span a pair of hands is assumed to cover.
const MinHandspan = 12

const DefaultStaves = 2
const DefaultHandspan = 12
const DefaultPhraseLimit = 1
const DefaultOutput = "output.musicxml"
