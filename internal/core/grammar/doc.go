// Package grammar compiles document grammars: the data that tells the
// engine where a document names its employee and how to pull each
// comparison field out of the document text.
//
// A grammar is declared as a Definition (usually decoded from TOML) and
// compiled once into a Grammar, which is safe for concurrent use.
package grammar
