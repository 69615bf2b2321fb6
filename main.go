package main

import "github.com/KaramelBytes/inflammation-cli/cmd"

func main() {
	cmd.Execute()
}
