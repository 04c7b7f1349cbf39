// Package domain maps MCP tool calls onto the icon library.
//
// Each tool has a schema constructor (XTool) and a handler constructor
// (XHandler) bound to a *library.Library. Handlers only read from the
// library, except labels_reload which switches locale and reloads labels.
package domain
