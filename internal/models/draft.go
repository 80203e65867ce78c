package models

// Draft is the locally cached, in-progress answer state for one
// assignment-taking attempt. It survives reloads and is deleted only
// after a confirmed successful submission.
type Draft struct {
	StudentName string            `json:"studentName"`
	JNumber     string            `json:"jNumber"`
	Answers     map[string]string `json:"answers"`
	Transcripts map[string]string `json:"transcripts"`
}

// EmptyDraft returns a draft with initialized maps so callers can write
// into it without nil checks.
func EmptyDraft() Draft {
	return Draft{
		Answers:     map[string]string{},
		Transcripts: map[string]string{},
	}
}

// IsEmpty reports whether the draft carries no recoverable state.
func (d Draft) IsEmpty() bool {
	return d.StudentName == "" && d.JNumber == "" && len(d.Answers) == 0 && len(d.Transcripts) == 0
}
