// Package scaffold writes the starter documents and Go handler stub for a
// single FM.
package scaffold
