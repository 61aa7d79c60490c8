// Package demo builds the sample tree served by the uisync binary.
package demo

import (
	"strings"

	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/widgets"
)

// Build adds a greeting form to root: a name field, a greet button and a
// label showing the greeting. Enter anywhere in the form greets as well.
func Build(root *component.Node) error {
	name := widgets.NewTextField("Name", component.WithID("name"))
	name.SetMaxLength(40)
	name.SetInputPrompt("Your name")

	greeting := widgets.NewLabel("", component.WithID("greeting"))

	greet := widgets.NewButton("Greet", component.WithID("greet"))
	greet.Node().SetIcon(component.ThemeResource{Path: "icons/wave.png"})
	greet.Node().SetDescription("Say hello")

	sayHello := func() {
		who := strings.TrimSpace(name.Value())
		if who == "" {
			greeting.SetValue("Hello, stranger")
			return
		}
		greeting.SetValue("Hello, " + who)
	}
	greet.AddClickListener(func(widgets.ClickEvent) { sayHello() })

	form, err := widgets.PanelOf(name.Node(), greet.Node(), greeting.Node())
	if err != nil {
		return err
	}
	form.Node().SetCaption("Greeter")
	form.Node().SetDebugID("form")
	form.Node().AddShortcutListener(component.NewShortcutListener("Greet", component.KeyEnter,
		func(*component.Node) { sayHello() }))

	if err := root.AddChild(form.Node()); err != nil {
		return err
	}
	name.Node().Focus()
	return nil
}
