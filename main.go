package main

import "github.com/Alijeyrad/triage_backend/cmd"

func main() {
	cmd.Execute()
}
