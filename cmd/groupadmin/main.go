// Command groupadmin inspects and repairs group chat admin roles.
package main

func main() {
	Execute()
}
