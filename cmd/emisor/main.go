// Link layer emitter.
package main

import linklab "github.com/XavierLopez25/Lab02-Redes/src"

func main() {
	linklab.EmisorMain()
}
