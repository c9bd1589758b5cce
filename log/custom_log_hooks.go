package log

// CustomLogHook is a function type for external log handling. It should return
// true if the package's own outputs should be bypassed for the message.
type CustomLogHook func(level, subLoggerName, message string) (bypassLibraryLogSystem bool)

var customLogHook CustomLogHook

// SetCustomLogHook sets a custom log hook function that sees every emitted
// message before it reaches the sub logger outputs
func SetCustomLogHook(h CustomLogHook) {
	mu.Lock()
	customLogHook = h
	mu.Unlock()
}
