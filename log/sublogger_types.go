package log

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global     *SubLogger
	Session    *SubLogger
	Broker     *SubLogger
	Simulation *SubLogger
	Rebalance  *SubLogger
	Strategy   *SubLogger
	Data       *SubLogger
	Database   *SubLogger
	Report     *SubLogger
	ConfigMgr  *SubLogger
)
