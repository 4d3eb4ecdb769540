package commands

// History display defaults
const (
	DefaultHistoryLimit = 20
	TopCommandsLimit    = 5
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryDisabled          = "History is disabled. Set history.enabled: true in the config file to record runs."
	MsgHistoryCleared           = "History cleared."
)
