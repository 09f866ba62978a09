package roster

// Stages is the ordered painting pipeline. The first stage is where every
// new unit starts; the last marks a fully finished unit. The exact list is
// configurable, only the ordering matters here.
type Stages []string

// DefaultStages returns the stock painting pipeline.
func DefaultStages() Stages {
	return Stages{"Unstarted", "Build", "Prime", "Paint", "Base", "Done"}
}

// Initial returns the first stage, or "" for an empty pipeline.
func (s Stages) Initial() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Terminal returns the last stage, or "" for an empty pipeline.
func (s Stages) Terminal() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// Contains reports whether name is one of the stages.
func (s Stages) Contains(name string) bool {
	return s.Index(name) >= 0
}

// Index returns the position of name in the pipeline, or -1.
func (s Stages) Index(name string) int {
	for i, st := range s {
		if st == name {
			return i
		}
	}
	return -1
}
