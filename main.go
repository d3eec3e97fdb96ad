package main

import "github.com/frahmantamala/user-backoffice/cmd"

func main() {
	cmd.Execute()
}
