// Choicecore is a playground for discover-style choice chains: it loads a
// game directory and lets you play, fork and compare pending choices.
// Usage: choicecore [flags] <game_directory>
package main

func main() {
	Execute()
}
