// Package record defines the per-month habit record and its persisted JSON
// shape.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// Record holds the habits tracked in one month and, aligned by index, the set
// of days each habit was completed. Data[i] always belongs to Habits[i].
type Record struct {
	Habits []string `json:"habits"`
	Data   [][]int  `json:"data"`
}

// New returns a record with the provided habits and an empty completion set
// for each of them.
func New(habits []string) *Record {
	r := &Record{
		Habits: make([]string, 0, len(habits)),
		Data:   make([][]int, 0, len(habits)),
	}
	for _, h := range habits {
		r.Append(h)
	}
	return r
}

// ParseHabits splits comma separated text into trimmed, non-empty names.
func ParseHabits(raw string) []string {
	parts := strings.Split(raw, ",")
	habits := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			habits = append(habits, name)
		}
	}
	return habits
}

// Len returns the number of habits.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Habits)
}

// InRange reports whether i addresses an existing habit.
func (r *Record) InRange(i int) bool {
	return i >= 0 && i < r.Len()
}

// Aligned reports whether every habit has exactly one completion set.
func (r *Record) Aligned() bool {
	return r == nil || len(r.Habits) == len(r.Data)
}

// Has reports whether habit i was completed on day. Out of range habits are
// never completed.
func (r *Record) Has(i, day int) bool {
	if !r.InRange(i) || i >= len(r.Data) {
		return false
	}
	for _, d := range r.Data[i] {
		if d == day {
			return true
		}
	}
	return false
}

// Days returns the completed days of habit i in ascending order.
func (r *Record) Days(i int) []int {
	if !r.InRange(i) || i >= len(r.Data) {
		return []int{}
	}
	days := append([]int{}, r.Data[i]...)
	sort.Ints(days)
	return days
}

// Toggle flips the completion of day for habit i and returns the new state.
// The caller must ensure i is in range.
func (r *Record) Toggle(i, day int) bool {
	set := r.Data[i]
	for j, d := range set {
		if d == day {
			r.Data[i] = append(set[:j:j], set[j+1:]...)
			return false
		}
	}
	r.Data[i] = append(set, day)
	return true
}

// Append adds a habit with an empty completion set.
func (r *Record) Append(name string) {
	r.Habits = append(r.Habits, name)
	r.Data = append(r.Data, []int{})
}

// Rename replaces the name of habit i, leaving its completions untouched.
// The caller must ensure i is in range.
func (r *Record) Rename(i int, name string) {
	r.Habits[i] = name
}

// Remove deletes habit i together with its completion set. Later habits shift
// down by one. The caller must ensure i is in range.
func (r *Record) Remove(i int) {
	r.Habits = append(r.Habits[:i:i], r.Habits[i+1:]...)
	r.Data = append(r.Data[:i:i], r.Data[i+1:]...)
}

// Clone returns a deep copy so callers can mutate without touching r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		Habits: append([]string{}, r.Habits...),
		Data:   make([][]int, len(r.Data)),
	}
	for i, set := range r.Data {
		out.Data[i] = append([]int{}, set...)
	}
	return out
}

// Normalize restores the alignment invariant on decoded data: missing or null
// completion sets become empty, sets beyond the last habit are dropped and
// duplicate days collapse. Day values are otherwise kept as stored.
func (r *Record) Normalize() {
	if r.Habits == nil {
		r.Habits = []string{}
	}
	if r.Data == nil {
		r.Data = [][]int{}
	}
	if len(r.Data) > len(r.Habits) {
		r.Data = r.Data[:len(r.Habits)]
	}
	for len(r.Data) < len(r.Habits) {
		r.Data = append(r.Data, []int{})
	}
	for i, set := range r.Data {
		r.Data[i] = dedupe(set)
	}
}

func dedupe(set []int) []int {
	out := make([]int, 0, len(set))
	seen := make(map[int]struct{}, len(set))
	for _, d := range set {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Marshal serialises r as {"habits": [...], "data": [[...], ...]}. Days are
// written in ascending order.
func Marshal(r *Record) ([]byte, error) {
	out := r.Clone()
	if out == nil {
		out = New(nil)
	}
	out.Normalize()
	for i := range out.Data {
		sort.Ints(out.Data[i])
	}
	return json.Marshal(out)
}

// ErrNotObject is returned when persisted data is valid JSON but not an object.
var ErrNotObject = errors.New("record: expected a JSON object")

// Unmarshal decodes a persisted record and normalizes it.
func Unmarshal(data []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if json.Valid(trimmed) {
			return nil, ErrNotObject
		}
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	r.Normalize()
	return &r, nil
}
