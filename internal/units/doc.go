// Package units converts lengths, areas, volumes and masses between the unit
// symbols that appear in mass files and budgets.
//
// Conversion is symbol based:
//
//	kg, g, mg, t, lb, oz           (mass, base kg)
//	m, dm, cm, mm, um, km, in, ft  (length, base m)
//	m2, mm2, ... / m3, mm3, ...    (area and volume, any length symbol + 2 or 3)
//
// Unit strings are trimmed and NFKC normalized before lookup, so the micro
// sign (U+00B5) and the Greek mu (U+03BC) name the same unit.
//
// Converting a unit to itself is always the identity, but both symbols must
// still be recognized.
package units
