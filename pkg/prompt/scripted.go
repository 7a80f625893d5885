package prompt

import "fmt"

// Scripted is a Collector that replays canned answers in order. It is meant
// for tests and non interactive callers.
type Scripted struct {
	Answers []string
	// Labels records every label asked.
	Labels []string
}

func (s *Scripted) next(label string) (string, error) {
	s.Labels = append(s.Labels, label)
	if len(s.Answers) == 0 {
		return "", ErrCancelled
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *Scripted) Text(label string, validate func(string) error) (string, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	if validate != nil {
		if err := validate(a); err != nil {
			return "", err
		}
	}
	return a, nil
}

func (s *Scripted) Confirm(label string) (bool, error) {
	a, err := s.next(label)
	if err != nil {
		return false, err
	}
	return ParseBool(a)
}

func (s *Scripted) Select(label string, items []string) (int, error) {
	a, err := s.next(label)
	if err != nil {
		return -1, err
	}
	for i, item := range items {
		if item == a {
			return i, nil
		}
	}
	return -1, fmt.Errorf("prompt: %q is not one of %v", a, items)
}
