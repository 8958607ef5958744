package main

import "cdkdemo/cmd"

func main() {
	cmd.Execute()
}
