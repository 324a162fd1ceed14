// Link layer receiver.
package main

import linklab "github.com/XavierLopez25/Lab02-Redes/src"

func main() {
	linklab.ReceptorMain()
}
