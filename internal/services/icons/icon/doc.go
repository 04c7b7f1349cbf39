// Package icon stores icons and their categories.
//
// Icons refer to labels by handle. Plain label names are looked up in the
// label catalog supplied to Load; names starting with an underscore are group
// labels, collected into a catalog owned by the icon Catalog so every icon
// naming the same group shares one handle.
package icon
