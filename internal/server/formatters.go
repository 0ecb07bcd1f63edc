package server

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toJSONContent converts any data structure to MCP TextContent carrying its
// JSON encoding. Tool responses are consumed programmatically, so no
// human-readable rendering is needed here.
func toJSONContent(data interface{}) []mcp.Content {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errData, _ := json.Marshal(map[string]string{"error": err.Error()})
		return []mcp.Content{&mcp.TextContent{Text: string(errData)}}
	}
	return []mcp.Content{&mcp.TextContent{Text: string(jsonData)}}
}
