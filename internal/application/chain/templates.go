// Package chain implements the two prompt stages of an exec run: translating an
// instruction into a shell command and classifying that command's safety.
package chain

import (
	"bytes"
	"strings"
	"text/template"
)

const translateTemplate = `You are a Systems Administrator.
Given the natural language command, it is your job to convert it to a command that can be executed on the server.
Respond with the command and do not output anything else.

Operating System: {{.OS}}
Natural Language Command: {{.Instruction}}
`

const safetyTemplate = `You are a Systems Administrator.
Given the command, it is your job to check if it is safe to execute.

{{.FormatInstructions}}
Command: {{.Command}}
`

const formatInstructionsTemplate = "You must format your output as a JSON value that adheres to the JSON Schema below.\n" +
	"Include all three fields. Output only a markdown code snippet of the following form, nothing else:\n\n" +
	"```json\n{\"safe\": \"yes\", \"description\": \"...\", \"command\": \"...\"}\n```\n\n" +
	"JSON Schema:\n```json\n{{.Schema}}\n```\n"

var (
	translatePrompt          = template.Must(template.New("translate").Parse(translateTemplate))
	safetyPrompt             = template.Must(template.New("safety").Parse(safetyTemplate))
	formatInstructionsPrompt = template.Must(template.New("format").Parse(formatInstructionsTemplate))
)

type translateData struct {
	OS          string
	Instruction string
}

type safetyData struct {
	FormatInstructions string
	Command            string
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
