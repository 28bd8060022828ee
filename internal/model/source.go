// Package model defines the data structures shared by the transform pass and
// the host pipeline.
package model

// Path represents a file system path or a synthetic module id.
type Path string

// SourceUnit is one file handed to the transform pass.
type SourceUnit struct {
	ID   Path
	Text []byte
}

// SourceFile is a file discovered by the host pipeline. Root is the directory
// the file was found under and is used to mirror the layout into an output
// directory.
type SourceFile struct {
	Path Path
	Root Path
}
