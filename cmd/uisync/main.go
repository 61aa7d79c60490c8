// Command uisync serves the demo component tree to websocket clients.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/go-drift/uisync/cmd/uisync/cmd"
)

func main() {
	// glog registers its flags on the default set; log to stderr unless told otherwise.
	_ = flag.Set("logtostderr", "true")
	flag.Parse()

	if err := cmd.Execute(flag.Args()); err != nil {
		glog.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	glog.Flush()
}
