// Package testing provides a session testing framework.
//
// # Quick Start
//
// Create a tester with a build function, act on the tree, and render:
//
//	func TestGreeting(t *testing.T) {
//	    var name *widgets.TextField
//	    tester := synctest.NewSessionTester(t, func(root *component.Node) error {
//	        name = widgets.NewTextField("Name", component.WithID("name"))
//	        return root.AddChild(name.Node())
//	    })
//
//	    tester.SetVariables("name", map[string]any{"text": "Ada"})
//	    resp := tester.Render()
//
//	    if v, _ := resp.Find("name").Attr("text"); v != "Ada" {
//	        t.Errorf("text = %v", v)
//	    }
//	    tester.ExpectNoErrors()
//	}
//
// # Finders
//
// Finders locate nodes by debug id, connector id, tag, caption or content
// type:
//
//	ok := tester.Find(synctest.ByCaption("OK")).First()
//
// # Snapshot Testing
//
// Capture and compare render responses. Generated connector ids are
// replaced by stable names, so trees built without fixed ids can be
// snapshotted:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/form.snapshot.json")
//
// Update snapshots with:
//
//	UISYNC_UPDATE_SNAPSHOTS=1 go test ./...
package testing
