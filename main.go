package main

import "github.com/frahmantamala/budget-approval/cmd"

func main() {
	cmd.Execute()
}
