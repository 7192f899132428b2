// Package dbtest provides an in-memory database.DB for unit tests of the
// introspector, the foreign-key resolver and the generator.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/koustreak/autoseq/internal/database"
	"github.com/koustreak/autoseq/internal/errs"
)

// Result is what a matched statement returns. Rows feed Query, Maps feed
// QueryMaps.
type Result struct {
	Rows [][]any
	Maps []map[string]any
	Err  error
}

// Call records one statement sent to the fake.
type Call struct {
	SQL  string
	Args []any
}

// DB answers each statement with the Result whose fragment is a substring of
// the SQL text and, for OnArg rules, whose argument is bound. Rules with an
// argument win over plain ones; among equals the latest registration wins.
// Safe for concurrent use.
type DB struct {
	Engine database.Driver

	mu      sync.Mutex
	results []rule
	calls   []Call
	closed  bool
}

type rule struct {
	contains string
	arg      any
	hasArg   bool
	result   Result
}

func New(engine database.Driver) *DB {
	return &DB{Engine: engine}
}

// On registers a result for statements containing fragment.
func (d *DB) On(fragment string, r Result) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, rule{contains: fragment, result: r})
	return d
}

// OnArg registers a result for statements containing fragment whose argument
// list includes arg.
func (d *DB) OnArg(fragment string, arg any, r Result) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, rule{contains: fragment, arg: arg, hasArg: true, result: r})
	return d
}

// Calls returns a copy of the statements seen so far.
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// Closed reports whether Close was called.
func (d *DB) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *DB) match(q string, args []any) (Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{SQL: q, Args: args})

	candidates := make([]rule, 0, len(d.results))
	for i := len(d.results) - 1; i >= 0; i-- {
		if r := d.results[i]; strings.Contains(q, r.contains) {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].hasArg && !candidates[j].hasArg
	})
	for _, r := range candidates {
		if !r.hasArg || containsArg(args, r.arg) {
			return r.result, true
		}
	}
	return Result{}, false
}

func containsArg(args []any, want any) bool {
	for _, a := range args {
		if reflect.DeepEqual(a, want) {
			return true
		}
	}
	return false
}

func (d *DB) Driver() database.Driver { return d.Engine }

func (d *DB) Ping(context.Context) error { return nil }

func (d *DB) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *DB) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "query cancelled", err)
	}
	r, ok := d.match(q, args)
	if !ok {
		return nil, errs.Newf(errs.ErrKindQueryFailed, "unexpected query: %s", q)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &rows{data: r.Rows, pos: -1}, nil
}

func (d *DB) QueryMaps(ctx context.Context, q string, args ...any) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "query cancelled", err)
	}
	r, ok := d.match(q, args)
	if !ok {
		return nil, errs.Newf(errs.ErrKindQueryFailed, "unexpected query: %s", q)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]map[string]any, len(r.Maps))
	for i, m := range r.Maps {
		cp := make(map[string]any, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}

type rows struct {
	data [][]any
	pos  int
}

func (r *rows) Next() bool {
	r.pos++
	return r.pos < len(r.data)
}

func (r *rows) Close()     {}
func (r *rows) Err() error { return nil }

// Scan assigns positionally. A nil value zeroes the destination; a value
// assigned to a pointer-to-pointer destination is boxed.
func (r *rows) Scan(dest ...any) error {
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
			target.Set(v)
		case target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v)
			target.Set(p)
		case v.Type().ConvertibleTo(target.Type()):
			target.Set(v.Convert(target.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", row[i], target.Type())
		}
	}
	return nil
}
