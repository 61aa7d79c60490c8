package component

import "maps"

// State is the shared state of a node: the generic attributes in the form
// the client consumes. It is recomputed from the node on every fresh paint
// and never shared between nodes.
type State struct {
	Caption     string
	Description string
	Width       string
	Height      string
	Style       string
	Locale      string
	Immediate   bool
	ReadOnly    bool
	Disabled    bool
	// Extra holds content-specific keys added by a StateExtender.
	Extra map[string]any
}

// Set stores a content-specific key.
func (s *State) Set(key string, value any) {
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}
	s.Extra[key] = value
}

// Map returns the non-default fields keyed by their wire names.
func (s *State) Map() map[string]any {
	m := make(map[string]any, 9+len(s.Extra))
	maps.Copy(m, s.Extra)
	putString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}
	putBool := func(key string, v bool) {
		if v {
			m[key] = true
		}
	}
	putString("caption", s.Caption)
	putString("description", s.Description)
	putString("width", s.Width)
	putString("height", s.Height)
	putString("style", s.Style)
	putString("locale", s.Locale)
	putBool("immediate", s.Immediate)
	putBool("readOnly", s.ReadOnly)
	putBool("disabled", s.Disabled)
	return m
}

// State returns the node's shared state, refreshed from its attributes.
// Invisible nodes have no state and return nil.
func (n *Node) State() *State {
	if !n.IsVisible() {
		return nil
	}
	if n.state == nil {
		n.state = &State{}
	}
	s := n.state
	*s = State{
		Caption:     n.caption,
		Description: n.description,
		Width:       n.width.CSS(),
		Height:      n.height.CSS(),
		Style:       n.StyleName(),
		Immediate:   n.immediate,
		ReadOnly:    n.readOnly,
		Disabled:    !n.IsEnabled(),
	}
	if n.locale != nil {
		s.Locale = n.locale.String()
	}
	if n.actions != nil {
		if shortcuts := n.actions.describe(); len(shortcuts) > 0 {
			s.Set("shortcuts", shortcuts)
		}
	}
	if ext, ok := n.content.(StateExtender); ok {
		ext.ExtendState(n, s)
	}
	return s
}
