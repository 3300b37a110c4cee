package main

import "github.com/iksnae/session-dashboard/cmd"

func main() {
	cmd.Execute()
}
