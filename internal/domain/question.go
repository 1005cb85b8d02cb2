package domain

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// Question is a single multiple-choice record in the pool.
// Options are kept in the order they were created in and contain Answer
// exactly once.
type Question struct {
	Topic   string
	Prompt  string
	Answer  string
	Options [OptionCount]string
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	var fields []string
	if q.Topic == "" {
		fields = append(fields, "topic")
	}
	if q.Prompt == "" {
		fields = append(fields, "prompt")
	}
	if q.Answer == "" {
		fields = append(fields, "answer")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	matches := 0
	for _, opt := range q.Options {
		if opt == "" {
			return &ValidationError{Fields: []string{"options"}, Reason: "empty option"}
		}
		if opt == q.Answer {
			matches++
		}
	}
	if matches != 1 {
		return &ValidationError{Fields: []string{"options"}, Reason: "answer must appear exactly once"}
	}
	return nil
}
