// Package tiers resolves the tier of a modifier against every other
// variant of its family that could roll on a given item.
//
// A Table is built once from the catalog and is read-only afterwards.
// Classifier.Classify is a pure function of the item's tag set, the target
// record and the table; it keeps no state between calls and may be used
// from any number of goroutines.
package tiers
