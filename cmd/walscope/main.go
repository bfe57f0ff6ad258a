// walscope inspects a raft log directory offline for entries whose payload
// is preceded by filler bytes.
package main

import (
	"os"

	"walscope/cmd/walscope/app"
)

func main() {
	app.New("walscope", os.Stdout).Run()
}
