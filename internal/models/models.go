package models

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// File types stored per document chunk.
const (
	FileTypePDF   = "pdf"
	FileTypeExcel = "excel"
)

// PartitionAll is the query-time sentinel meaning "no partition scoping".
// It is never a valid stored partition name.
const PartitionAll = "all"

// ChatMessage is one turn of a conversation. The last user message is the
// query the retrieval pipeline answers.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
