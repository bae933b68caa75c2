package main

import "match-calendar/cmd"

func main() {
	cmd.Execute()
}
