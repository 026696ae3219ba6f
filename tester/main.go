package main

import "tester/tester/cmd"

func main() {
	cmd.Execute()
}
