package preflight

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is an external executable a hook shells out to.
type Tool struct {
	Name     string
	Command  string
	Optional bool
}

// ToolStatus is the PATH lookup outcome for one Tool. Detail holds the
// resolved path when Available, otherwise the reason it is not.
type ToolStatus struct {
	Tool
	Available bool
	Detail    string
}

// LookupTools resolves each tool's command on PATH.
func LookupTools(tools ...Tool) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(tools))
	for _, tool := range tools {
		tool.Command = strings.TrimSpace(tool.Command)
		status := ToolStatus{Tool: tool}
		if tool.Command == "" {
			status.Detail = "command not configured"
		} else if path, err := exec.LookPath(tool.Command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", tool.Command)
		} else {
			status.Available = true
			status.Detail = path
		}
		statuses = append(statuses, status)
	}
	return statuses
}
