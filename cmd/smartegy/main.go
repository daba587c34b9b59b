// Command smartegy reads scripture in Egyptian colloquial Arabic.
package main

import "github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
