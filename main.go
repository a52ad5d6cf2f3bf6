package main

import "datachain/cmd"

func main() {
	cmd.Execute()
}
