package main

import "glyphforge/internal/glyphforge"

func main() {
	glyphforge.Main()
}
