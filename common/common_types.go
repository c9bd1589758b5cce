package common

import "errors"

const (
	// SimpleTimeFormat is the date layout used by configs, reports and the CLI
	SimpleTimeFormat = "2006-01-02"
	// SimpleTimeFormatWithTime is used when printing simulation events
	SimpleTimeFormatWithTime = "2006-01-02 15:04:05"
)

// Error categories. Package specific errors wrap one of these so callers can
// check either the precise error or its category with errors.Is
var (
	// ErrConfiguration is returned for invalid or incomplete configuration
	// and always aborts before a simulation runs
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation is returned when an operation's arguments fail validation
	ErrValidation = errors.New("validation error")
	// ErrCapabilityMismatch is returned when a pluggable component does not
	// satisfy the interface it is being used as
	ErrCapabilityMismatch = errors.New("capability mismatch")
	// ErrOrderRejected is the non fatal, per order failure category
	ErrOrderRejected = errors.New("order rejected")
)

var (
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is a common error for whenever a nil event occurs when it shouldn't have
	ErrNilEvent = errors.New("nil event received")
)

// ASCIILogo is optionally printed to the command line window
const ASCIILogo = `
                 _                 _                 _
 _ __ ___ _ __  | | __ _ _   _  __| |_ _ __ __ _  __| | ___ _ __
| '__/ _ \ '_ \ | |/ _' | | | |/ _' __| '__/ _' |/ _' |/ _ \ '__|
| | |  __/ |_) || | (_| | |_| | (_| |_| | | (_| | (_| |  __/ |
|_|  \___| .__/ |_|\__,_|\__, |\__,_|\__|_|  \__,_|\__,_|\___|_|
         |_|             |___/
`
