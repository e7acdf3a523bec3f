// Command planassist is a terminal chat client for the Insurance Plan Assistant.
package main

import "github.com/diogo/planassist/internal/commands"

func main() {
	commands.Execute()
}
