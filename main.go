package main

import "crmimport/cmd"

func main() {
	cmd.Execute()
}
