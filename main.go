package main

import "github.com/realmeupdater/realme-updates-tracker/cmd"

func main() {
	cmd.Execute()
}
