// Package widgets provides the stock components a session tree is built from.
//
// Each widget owns the [component.Node] it is painted as. The widget is the
// node's content: it adds its own keys to the shared state, writes its
// attributes during a fresh paint, and receives the calls and variables the
// client sends back to the node.
//
// # Widget Construction
//
// Widgets are created with a NewXxx constructor and added to the tree
// through their node:
//
//	ok := widgets.NewButton("OK")
//	ok.AddClickListener(func(e widgets.ClickEvent) {
//	    fmt.Println("clicked")
//	})
//	root.AddChild(ok.Node())
//
// Containers have an XxxOf helper that adds children in one step:
//
//	form, err := widgets.PanelOf(
//	    widgets.NewTextField("Name").Node(),
//	    widgets.NewButton("Save").Node(),
//	)
//
// # Input Widgets
//
// Button and TextField handle user input. Buttons receive clicks through the
// ButtonServerRpc interface; text fields receive typed text as variables.
// Both are focusable and forward nothing while disabled or read-only.
package widgets
