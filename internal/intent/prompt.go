package intent

import (
	"fmt"
	"strings"

	"deskvox/internal/action"
)

const basePrompt = `You are a desktop voice assistant.
Understand the user's voice command and call the correct tool.
You can manage files, run apps, and browse the web.
Call at most ONE tool per command. If nothing fits, call no tool.
Do not explain your reasoning.`

// Instructions builds the system prompt for tool calling engines. Every
// exclusion hint of the catalog becomes an explicit rule.
func Instructions(catalog *action.Catalog) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	rules := exclusionRules(catalog)
	if len(rules) > 0 {
		sb.WriteString("\n\nRULES:\n")
		for _, r := range rules {
			sb.WriteString("- ")
			sb.WriteString(r)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func exclusionRules(catalog *action.Catalog) []string {
	var rules []string
	for _, d := range catalog.All() {
		for _, x := range d.Excludes {
			rules = append(rules, fmt.Sprintf(
				"If the command asks for '%s', use '%s' ONLY. Do NOT call '%s' in addition.",
				d.Name, d.Name, x,
			))
		}
	}
	return rules
}

// Schema is the JSON schema of an action's arguments.
func Schema(d *action.Descriptor) map[string]any {
	props := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		prop := map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		if p.Optional {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
	}

	required := d.Required()
	if required == nil {
		required = []string{}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// ToolDefinitions renders the catalog in the common function tool layout
// {"type":"function","function":{name, description, parameters}}.
func ToolDefinitions(catalog *action.Catalog) []map[string]any {
	defs := make([]map[string]any, 0, catalog.Len())
	for _, d := range catalog.All() {
		defs = append(defs, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"parameters":  Schema(d),
			},
		})
	}
	return defs
}

const jsonPrompt = `You are the intent classifier of a desktop voice assistant.
Your ONLY job is to convert the user's command into a minimal JSON object.

GENERAL RULES:
1. Do NOT converse.
2. Do NOT answer the question.
3. Do NOT add explanations.
4. Output ONLY JSON. No markdown.
5. Choose at most ONE action. Never invent actions or arguments.

OUTPUT FORMAT:
{
  "action": "<action name or none>",
  "args": { "<argument>": "<string value>" }
}

If the meaning is unclear or no action fits, output {"action": "none", "args": {}}.

ACTIONS:
`

// CatalogPrompt lists actions with their arguments for JSON-only engines.
func CatalogPrompt(catalog *action.Catalog) string {
	var sb strings.Builder
	sb.WriteString(jsonPrompt)

	for _, d := range catalog.All() {
		fmt.Fprintf(&sb, "- %q: %s\n", d.Name, d.Description)
		for _, p := range d.Params {
			if p.Optional {
				fmt.Fprintf(&sb, "    %s (optional, default %q): %s\n", p.Name, p.Default, p.Description)
			} else {
				fmt.Fprintf(&sb, "    %s: %s\n", p.Name, p.Description)
			}
		}
	}

	if rules := exclusionRules(catalog); len(rules) > 0 {
		sb.WriteString("\nEXCLUSIONS:\n")
		for _, r := range rules {
			sb.WriteString("- ")
			sb.WriteString(r)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
