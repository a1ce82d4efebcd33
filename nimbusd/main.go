// Command nimbusd runs the local trace collector daemon.
package main

import "github.com/nimbustrace/nimbus/nimbusd/cmd"

func main() {
	cmd.Execute()
}
