package cmd

// ErrExitWith is returned when the command wants main to exit with a
// specific message and code.
type ErrExitWith struct {
	// Msg is displayed to the user.
	Msg string
	// Err is the causing error, for logging.
	Err error
	// ShowUsage prints the usage text as well.
	ShowUsage bool
	// ExitCode for os.Exit.
	ExitCode int
}

func (e ErrExitWith) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Err.Error()
}
