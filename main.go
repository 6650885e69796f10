package main

import "github.com/frahmantamala/workorder-management/cmd"

func main() {
	cmd.Execute()
}
