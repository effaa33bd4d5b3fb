package formater

var mediaErrors = map[int]string{
	1: "Playback aborted",
	2: "Network error while loading the recording",
	3: "The recording could not be decoded",
	4: "Recording format is not supported",
}

// FormatMediaError maps a media element error code to a user facing message.
func FormatMediaError(code int) string {
	if msg, ok := mediaErrors[code]; ok {
		return msg
	}
	return "Unknown playback error"
}
