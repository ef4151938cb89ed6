// ABOUTME: Entry point for the duotone CLI
// ABOUTME: Hands off to the cobra command tree
package main

import "github.com/duotone-audio/duotone-go/cmd"

func main() {
	cmd.Execute()
}
