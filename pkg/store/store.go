// Package store persists month records and the active-month pointer in a
// key-value layout:
//
//	habit-<YYYY-MM>  -> {"habits": [...], "data": [[...], ...]}
//	habit-lastMonth  -> YYYY-MM
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
)

const (
	// KeyPrefix prefixes every key written by the store.
	KeyPrefix = "habit-"
	// ActiveMonthKey holds the month the UI should open on next load.
	ActiveMonthKey = KeyPrefix + "lastMonth"
)

// ErrNotFound is returned by Get when no record exists for the month.
var ErrNotFound = errors.New("store: month not found")

// ErrCorruptData matches any CorruptDataError.
var ErrCorruptData = errors.New("store: corrupt data")

// CorruptDataError reports a stored value that could not be decoded.
type CorruptDataError struct {
	Key month.Key
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("store: corrupt data for %s: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorruptData) match.
func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// Persistence defines the persistence contract for month records.
type Persistence interface {
	Get(ctx context.Context, key month.Key) (*record.Record, error)
	Put(ctx context.Context, key month.Key, r *record.Record) error
	Remove(ctx context.Context, key month.Key) error
	MonthKeys(ctx context.Context) ([]month.Key, error)
	ActiveMonth(ctx context.Context) (month.Key, bool, error)
	SetActiveMonth(ctx context.Context, key month.Key) error
	ClearActiveMonth(ctx context.Context) error
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// backend is the raw string key-value layer beneath persistence.
type backend interface {
	// read returns ok=false when key is absent.
	read(ctx context.Context, key string) (val []byte, ok bool, err error)
	write(ctx context.Context, key string, val []byte) error
	// erase is a no-op for absent keys.
	erase(ctx context.Context, key string) error
	keys(ctx context.Context, prefix string) ([]string, error)
	watch(ctx context.Context) (<-chan Event, error)
	close() error
}

type persistence struct {
	b backend
}

// RecordKey returns the storage key for a month record.
func RecordKey(k month.Key) string {
	return KeyPrefix + string(k)
}

// MonthForKey reverses RecordKey. It reports false for the active pointer slot
// and for keys that do not hold a month record.
func MonthForKey(key string) (month.Key, bool) {
	if key == ActiveMonthKey || !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	k, err := month.Parse(strings.TrimPrefix(key, KeyPrefix))
	if err != nil {
		return "", false
	}
	return k, true
}

func checkKey(k month.Key) error {
	_, err := month.Parse(string(k))
	return err
}

func (p *persistence) Get(ctx context.Context, key month.Key) (*record.Record, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	val, ok, err := p.b.read(ctx, RecordKey(key))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	r, err := record.Unmarshal(val)
	if err != nil {
		return nil, &CorruptDataError{Key: key, Err: err}
	}
	return r, nil
}

func (p *persistence) Put(ctx context.Context, key month.Key, r *record.Record) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if r == nil {
		return errors.New("store: nil record")
	}
	data, err := record.Marshal(r)
	if err != nil {
		return err
	}
	return p.b.write(ctx, RecordKey(key), data)
}

func (p *persistence) Remove(ctx context.Context, key month.Key) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return p.b.erase(ctx, RecordKey(key))
}

func (p *persistence) MonthKeys(ctx context.Context) ([]month.Key, error) {
	raw, err := p.b.keys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	months := make([]month.Key, 0, len(raw))
	for _, key := range raw {
		if k, ok := MonthForKey(key); ok {
			months = append(months, k)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months, nil
}

func (p *persistence) ActiveMonth(ctx context.Context) (month.Key, bool, error) {
	val, ok, err := p.b.read(ctx, ActiveMonthKey)
	if err != nil || !ok {
		return "", false, err
	}
	k, err := month.Parse(strings.TrimSpace(string(val)))
	if err != nil {
		// A pointer that is not a month key points nowhere.
		return "", false, nil
	}
	return k, true, nil
}

func (p *persistence) SetActiveMonth(ctx context.Context, key month.Key) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return p.b.write(ctx, ActiveMonthKey, []byte(key))
}

func (p *persistence) ClearActiveMonth(ctx context.Context) error {
	return p.b.erase(ctx, ActiveMonthKey)
}

func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	return p.b.watch(ctx)
}

func (p *persistence) Close() error {
	return p.b.close()
}
