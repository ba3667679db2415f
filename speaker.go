package audioserver

// Speaker is a physical loudspeaker: where it stands, which device output
// channel drives it and which installations it serves.
type Speaker struct {
	Position      Point2
	Channel       int
	Installations InstallationSet
}
