package descriptions

import "sort"

// Tool names exposed over MCP
const (
	ToolExtractFile      = "record_extract_file"
	ToolAppendFile       = "record_append_file"
	ToolProcessDirectory = "record_process_directory"
	ToolSchema           = "record_schema"
)

const (
	ExtractFileDescription = `Extract the committee record from one report PDF without writing anything.

**When to use:** Checking what a single report yields before committing it to the workbook, or debugging why a report was rejected.

**What it does:** Reads the page text ("Key: Value" lines) and the interactive form fields, maps both onto the 12 workbook columns (form values win over text), normalizes dates to YYYY-MM-DD and translates decision and ranking codes.

**Examples:**
• Preview a report: "Extract the record from smith-2025.pdf"
• Diagnose a rejection: "Why does report-17.pdf fail?"

**Response:** JSON with "valid", the normalized "record" when valid, or the "errors" that rejected it.`

	AppendFileDescription = `Extract the committee record from one report PDF and append it to the workbook when it is valid.

**When to use:** A single new report arrived and should be added without reprocessing the whole directory.

**What it does:** Same pipeline as record_extract_file; a valid record is appended after the last row of the workbook's active sheet. The workbook is created from the template when it does not exist yet. Rejected reports are not written to the error log.

**Examples:**
• "Add new-report.pdf to the spreadsheet"

**Response:** JSON with "valid", "appended" and the record or the rejection errors.`

	ProcessDirectoryDescription = `Process every matching report PDF in a directory.

**When to use:** Batch ingestion of a folder of committee reports.

**What it does:** Discovers files matching the pattern (default *.pdf) in lexical order, runs the extraction pipeline on each, appends all valid records to the workbook in one write and replaces the error log with one entry per rejected or unreadable report. A bad report never stops the batch.

**Examples:**
• "Process all reports in the input directory"
• "Process only 2025_*.pdf"

**Response:** JSON with document, valid and failed counts plus the failure entries.`

	SchemaDescription = `Describe the workbook layout and the code tables.

**When to use:** Understanding which PDF field names are recognized and how codes are translated.

**Response:** JSON with the ordered columns, the required columns, the raw field name mapping, the decision codes and the ranking codes.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolExtractFile:      ExtractFileDescription,
	ToolAppendFile:       AppendFileDescription,
	ToolProcessDirectory: ProcessDirectoryDescription,
	ToolSchema:           SchemaDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
