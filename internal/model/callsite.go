package model

// Argument is the first argument of a matched call, located by byte offsets
// into the original source.
type Argument struct {
	Start    uint   `yaml:"-"`
	End      uint   `yaml:"-"`
	Kind     string `yaml:"kind"`
	Operator string `yaml:"operator,omitempty"` // binary operator when Kind is a binary expression
	Text     string `yaml:"text"`
}

// CallSite is a `<object>.<method>(<args>)` invocation found in a source file.
type CallSite struct {
	Object        string   `yaml:"object"`
	Method        string   `yaml:"method"`
	Line          int      `yaml:"line"`
	Column        int      `yaml:"column"`
	FirstArgument Argument `yaml:"key"`
}

// Edit inserts Text at byte Offset of the original source. Closing edits sort
// before opening edits at the same offset.
type Edit struct {
	Offset  uint
	Text    string
	Closing bool
}

// SourceMap is never produced; the field exists so hosts see an explicit nil map.
type SourceMap struct{}

// RewriteResult is the output of a successful transform.
type RewriteResult struct {
	Code      string
	Map       *SourceMap
	CallSites []CallSite
}
