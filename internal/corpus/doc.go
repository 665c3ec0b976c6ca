// Package corpus presents an MLS-style corpus split as an ordered, indexable
// collection of labeled speech samples.
//
// A split directory holds an audio tree (audio/<speaker>/<chapter>/<file>),
// per-chapter transcript files produced by the label splitter, and optional
// limited-supervision handle lists. The Index enumerates sample identifiers
// (full walk or limited-supervision subset) and the Assembler joins one
// identifier's audio file with its transcript line, optionally consulting the
// sample cache.
package corpus
