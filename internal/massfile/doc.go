// Package massfile reads and writes the comma-delimited mass file format.
//
// # Format
//
//	# comment lines start with '#'; blank lines are ignored
//	g, mm                              <- header: quantity unit, position unit
//	2500, 550, 0, -200, battery        <- value, x, y, z[, name]
//	{{ .ballast.mass }}, 0, 0, 0, ballast   <- template line, skipped
//
// The first line that is neither blank nor a comment is the header. Every
// later line containing "{{" is a template placeholder: it is kept aside in
// Table.Templates and never contributes to a loaded collection.
//
// Loaders convert values to kilograms and, for masses, positions to meters.
// Writers convert back to the requested units at write time and emit rows in
// collection order.
package massfile
