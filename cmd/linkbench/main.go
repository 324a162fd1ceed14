// Noisy channel bench for the link layer codecs.
package main

import linklab "github.com/XavierLopez25/Lab02-Redes/src"

func main() {
	linklab.BenchMain()
}
