package pipeline

// Context is the processing context handed to extractors alongside each
// document.
type Context struct {
	Locator string
	Root    string
	Params  map[string]any
}

// Fields exposes the context to Lua functions as a table.
func (c Context) Fields() map[string]any {
	params := c.Params
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		"locator": c.Locator,
		"root":    c.Root,
		"params":  params,
	}
}
