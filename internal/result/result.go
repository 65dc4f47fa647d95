// Package result defines the outcome envelope returned by mutating tools.
package result

// Outcome messages reported by the calendar and drive tools.
const (
	MessageEventDeleted    = "Event deleted successfully"
	MessageAttendeeAdded   = "User added to event"
	MessageAttendeePresent = "User already in event"
	MessageAttendeeRemoved = "User removed from event"
	MessageAttendeeMissing = "User not found in event"
	MessageFolderCreated   = "Folder created"
	MessageFileCreated     = "File created"
	MessageItemNotFound    = "Item not found"
	MessageItemDeleted     = "Item deleted"
)

// LabelEvent is the label used when a result concerns a whole calendar event.
const LabelEvent = "Event"

// ToolResult is the generic outcome of a mutating tool call.
//
// SubjectID identifies the affected entity and is empty when nothing matched.
// Label echoes the caller-supplied or resolved identifier (email, item name).
type ToolResult struct {
	SubjectID string `json:"subjectId"`
	Label     string `json:"label"`
	Message   string `json:"message"`
}

// New creates a ToolResult.
func New(subjectID, label, message string) ToolResult {
	return ToolResult{SubjectID: subjectID, Label: label, Message: message}
}
