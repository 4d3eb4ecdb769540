package domain

// SafeYes is the only verdict value that permits execution without override.
const SafeYes = "yes"

// SafetyVerdict is the structured answer of the safety classifier.
// Command is the model's restatement and may differ from the translated command.
type SafetyVerdict struct {
	Safe        string `json:"safe" yaml:"safe" jsonschema:"'yes' if the command is safe to execute, 'no' otherwise."`
	Description string `json:"description" yaml:"description" jsonschema:"The description of the command."`
	Command     string `json:"command" yaml:"command" jsonschema:"The command to be executed."`
}

// IsSafe reports an exact, case-sensitive "yes".
func (v SafetyVerdict) IsSafe() bool {
	return v.Safe == SafeYes
}

// Permitted reports whether the verdict's command may run.
func (v SafetyVerdict) Permitted(override bool) bool {
	return v.IsSafe() || override
}
