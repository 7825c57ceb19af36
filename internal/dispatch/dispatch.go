// Package dispatch turns parsed command.Command values into executed
// results: it resolves referenced names through the catalog and the client
// context, drives the engine/exec/batch packages, and installs or streams
// results (spec §2 "Query dispatcher", §6 status codes).
package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hareesh108/haruDB/internal/batch"
	"github.com/Hareesh108/haruDB/internal/command"
	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/exec"
	"github.com/Hareesh108/haruDB/internal/session"
)

// Status mirrors the wire status codes (spec §6, §7).
type Status int

const (
	OKDone Status = iota
	OKWaitForResponse
	UnknownCommand
	ObjectNotFound
	IncorrectFormat
	QueryUnsupported
	ExecutionError
)

// Response is the result of dispatching one command.
type Response struct {
	Status   Status
	Message  string
	Vectors  []*engine.Vector // populated for print
	Shutdown bool
}

func errResponse(status Status, format string, args ...any) *Response {
	return &Response{Status: status, Message: fmt.Sprintf(format, args...)}
}

func ok(message string) *Response {
	return &Response{Status: OKDone, Message: message}
}

// Dispatcher holds the per-session state a command needs to execute:
// the shared catalog, this session's handle table, and an optional open
// batch (spec §4.5, §4.8).
type Dispatcher struct {
	Catalog          *engine.Catalog
	Session          *session.Context
	Log              zerolog.Logger
	MaxSharedPerPass int
	MaxSelectThreads int
	MaxBtreeKeys     int

	openBatch *batch.Batch
}

// New creates a dispatcher bound to cat/sess with the given batch-scheduler
// tuning (spec §4.5).
func New(cat *engine.Catalog, sess *session.Context, maxSharedPerPass, maxSelectThreads, maxBtreeKeys int) *Dispatcher {
	return &Dispatcher{
		Catalog:          cat,
		Session:          sess,
		Log:              log.Logger,
		MaxSharedPerPass: maxSharedPerPass,
		MaxSelectThreads: maxSelectThreads,
		MaxBtreeKeys:     maxBtreeKeys,
	}
}

// Execute dispatches one parsed command, logging its kind and elapsed time
// (spec §9 design note, mirroring the source's "Batched queries took %f
// seconds" instrumentation as structured fields instead of a printf string).
func (d *Dispatcher) Execute(cmd *command.Command) *Response {
	start := time.Now()
	resp := d.execute(cmd)
	d.Log.Debug().
		Str("component", "dispatch").
		Str("op", string(cmd.Op)).
		Int("status", int(resp.Status)).
		Dur("elapsed", time.Since(start)).
		Msg("command executed")
	return resp
}

func (d *Dispatcher) execute(cmd *command.Command) *Response {
	switch cmd.Op {
	case command.OpCreate:
		return d.execCreate(cmd)
	case command.OpInsert:
		return d.execInsert(cmd)
	case command.OpSelect:
		return d.execSelect(cmd)
	case command.OpFetch:
		return d.execFetch(cmd)
	case command.OpSum:
		return d.execAggregate1(cmd, func(data []int32) (*engine.Vector, error) { return exec.Sum(data), nil })
	case command.OpAvg:
		return d.execAggregate1(cmd, exec.Avg)
	case command.OpMin:
		return d.execMinMax(cmd, exec.Min, exec.MinAtPositions)
	case command.OpMax:
		return d.execMinMax(cmd, exec.Max, exec.MaxAtPositions)
	case command.OpAdd:
		return d.execElementWise(cmd, exec.Add)
	case command.OpSub:
		return d.execElementWise(cmd, exec.Sub)
	case command.OpJoin:
		return d.execJoin(cmd)
	case command.OpPrint:
		return d.execPrint(cmd)
	case command.OpBatchQueries:
		d.openBatch = batch.New(d.MaxSharedPerPass, d.MaxSelectThreads)
		d.openBatch.Log = d.Log
		return ok("batch opened")
	case command.OpBatchExecute:
		return d.execBatchExecute()
	case command.OpShutdown:
		return &Response{Status: OKDone, Shutdown: true, Message: "shutting down"}
	default:
		return errResponse(UnknownCommand, "unknown command %q", cmd.Op)
	}
}

// resolveVector resolves a select/fetch/aggregate argument that names
// either a qualified column ("db.table.col") or a context handle.
func (d *Dispatcher) resolveVector(name string) (col *engine.Column, vec *engine.Vector, err error) {
	if strings.Contains(name, ".") {
		parts := command.SplitQualified(name)
		col, err = d.resolveColumnParts(parts)
		return col, nil, err
	}
	vec, err = d.Session.Get(name)
	return nil, vec, err
}

func (d *Dispatcher) resolveColumnParts(parts []string) (*engine.Column, error) {
	switch len(parts) {
	case 2:
		return d.Catalog.ResolveColumn("", parts[0], parts[1])
	case 3:
		return d.Catalog.ResolveColumn(parts[0], parts[1], parts[2])
	default:
		return nil, fmt.Errorf("malformed column reference")
	}
}

func (d *Dispatcher) execCreate(cmd *command.Command) *Response {
	if len(cmd.Args) == 0 {
		return errResponse(IncorrectFormat, "create: missing kind")
	}
	switch cmd.Args[0] {
	case "db":
		if len(cmd.Args) != 2 {
			return errResponse(IncorrectFormat, "create(db,...): expected 1 argument")
		}
		if _, err := d.Catalog.CreateDatabase(cmd.Args[1]); err != nil {
			return errResponse(ExecutionError, "%s", err)
		}
		return ok("database created")

	case "tbl":
		if len(cmd.Args) != 4 {
			return errResponse(IncorrectFormat, "create(tbl,...): expected 3 arguments")
		}
		dbName := cmd.Args[2]
		db := d.Catalog.Databases[dbName]
		if db == nil {
			return errResponse(ObjectNotFound, "database %s not found", dbName)
		}
		colCount, err := strconv.Atoi(cmd.Args[3])
		if err != nil || colCount < 1 {
			return errResponse(IncorrectFormat, "create(tbl,...): invalid column count %q", cmd.Args[3])
		}
		if _, err := db.CreateTableWithColumnCapacity(cmd.Args[1], colCount); err != nil {
			return errResponse(ExecutionError, "%s", err)
		}
		return ok("table created")

	case "col":
		if len(cmd.Args) != 3 {
			return errResponse(IncorrectFormat, "create(col,...): expected 2 arguments")
		}
		parts := command.SplitQualified(cmd.Args[2])
		if len(parts) != 2 {
			return errResponse(IncorrectFormat, "create(col,...): expected db.table")
		}
		db := d.Catalog.Databases[parts[0]]
		if db == nil {
			return errResponse(ObjectNotFound, "database %s not found", parts[0])
		}
		tbl := db.TableByName(parts[1])
		if tbl == nil {
			return errResponse(ObjectNotFound, "table %s not found", parts[1])
		}
		if _, err := tbl.AddColumn(cmd.Args[1]); err != nil {
			return errResponse(ExecutionError, "%s", err)
		}
		return ok("column created")

	case "idx":
		if len(cmd.Args) != 4 {
			return errResponse(IncorrectFormat, "create(idx,...): expected 3 arguments")
		}
		parts := command.SplitQualified(cmd.Args[1])
		col, err := d.resolveColumnParts(parts)
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}

		clustered := cmd.Args[3] == "clustered"
		if clustered {
			if err := col.Table().SetClusteringColumn(col); err != nil {
				return errResponse(ExecutionError, "%s", err)
			}
		}

		var kind engine.IndexKind
		switch cmd.Args[2] {
		case "sorted":
			kind = engine.SortedKind
		case "btree":
			kind = engine.BtreeKind
		default:
			return errResponse(IncorrectFormat, "create(idx,...): unknown index type %q", cmd.Args[2])
		}
		col.BuildIndexFromData(kind, d.MaxBtreeKeys)
		return ok("index created")

	default:
		return errResponse(IncorrectFormat, "create: unknown kind %q", cmd.Args[0])
	}
}

func (d *Dispatcher) execInsert(cmd *command.Command) *Response {
	if len(cmd.Args) < 2 {
		return errResponse(IncorrectFormat, "relational_insert: missing table or values")
	}
	parts := command.SplitQualified(cmd.Args[0])
	var tbl *engine.Table
	var err error
	switch len(parts) {
	case 1:
		tbl, err = d.Catalog.ResolveTable("", parts[0])
	case 2:
		tbl, err = d.Catalog.ResolveTable(parts[0], parts[1])
	default:
		err = fmt.Errorf("malformed table reference %q", cmd.Args[0])
	}
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}

	values := make([]int32, len(cmd.Args)-1)
	for i, a := range cmd.Args[1:] {
		n, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return errResponse(IncorrectFormat, "relational_insert: value %q is not an integer", a)
		}
		values[i] = int32(n)
	}
	if err := tbl.Insert(values); err != nil {
		return errResponse(ExecutionError, "%s", err)
	}
	return ok("inserted")
}

func (d *Dispatcher) execSelect(cmd *command.Command) *Response {
	handle := ""
	if len(cmd.Handles) == 1 {
		handle = cmd.Handles[0]
	}

	var cmp *engine.Comparator
	switch len(cmd.Args) {
	case 3:
		col, vec, err := d.resolveVector(cmd.Args[0])
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}
		lower, err := command.ParseBound(cmd.Args[1])
		if err != nil {
			return errResponse(IncorrectFormat, "%s", err)
		}
		upper, err := command.ParseBound(cmd.Args[2])
		if err != nil {
			return errResponse(IncorrectFormat, "%s", err)
		}
		cmp = &engine.Comparator{BaseColumn: col, BaseVector: vec, Lower: lower, Upper: upper, Handle: handle}

	case 4:
		posCol, posVec, err := d.resolveVector(cmd.Args[0])
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}
		baseCol, baseVec, err := d.resolveVector(cmd.Args[1])
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}
		lower, err := command.ParseBound(cmd.Args[2])
		if err != nil {
			return errResponse(IncorrectFormat, "%s", err)
		}
		upper, err := command.ParseBound(cmd.Args[3])
		if err != nil {
			return errResponse(IncorrectFormat, "%s", err)
		}
		cmp = &engine.Comparator{
			BaseColumn: baseCol, BaseVector: baseVec,
			PosColumn: posCol, PosVector: posVec,
			Lower: lower, Upper: upper, Handle: handle,
		}

	default:
		return errResponse(IncorrectFormat, "select: expected 3 or 4 arguments, got %d", len(cmd.Args))
	}

	if d.openBatch != nil {
		if err := d.openBatch.Add(handle, cmp); err != nil {
			return errResponse(ExecutionError, "%s", err)
		}
		return &Response{Status: OKWaitForResponse, Message: "queued in open batch"}
	}

	result := exec.Scan(cmp)
	d.Session.Put(handle, result)
	return ok("selected")
}

func (d *Dispatcher) execBatchExecute() *Response {
	if d.openBatch == nil {
		return errResponse(QueryUnsupported, "batch_execute: no open batch")
	}
	b := d.openBatch
	d.openBatch = nil
	b.Execute(d.Session)
	return ok("batch executed")
}

func (d *Dispatcher) execFetch(cmd *command.Command) *Response {
	if len(cmd.Args) != 2 {
		return errResponse(IncorrectFormat, "fetch: expected 2 arguments")
	}
	col, _, err := d.resolveVector(cmd.Args[0])
	if err != nil || col == nil {
		return errResponse(ObjectNotFound, "fetch: column %q not found", cmd.Args[0])
	}
	_, posVec, err := d.resolveVector(cmd.Args[1])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	result := exec.Fetch(col, posVec)
	d.Session.Put(firstHandle(cmd), result)
	return ok("fetched")
}

func (d *Dispatcher) execAggregate1(cmd *command.Command, fn func([]int32) (*engine.Vector, error)) *Response {
	if len(cmd.Args) != 1 {
		return errResponse(IncorrectFormat, "expected 1 argument")
	}
	data, err := d.resolveData(cmd.Args[0])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	result, err := fn(data)
	if err != nil {
		return errResponse(ExecutionError, "%s", err)
	}
	d.Session.Put(firstHandle(cmd), result)
	return ok("aggregated")
}

func (d *Dispatcher) execMinMax(cmd *command.Command, fn1 func([]int32) (*engine.Vector, error), fn2 func(positions, values []int32) (*engine.Vector, error)) *Response {
	switch len(cmd.Args) {
	case 1:
		return d.execAggregate1(cmd, fn1)
	case 2:
		positions, err := d.resolveData(cmd.Args[0])
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}
		values, err := d.resolveData(cmd.Args[1])
		if err != nil {
			return errResponse(ObjectNotFound, "%s", err)
		}
		result, err := fn2(positions, values)
		if err != nil {
			return errResponse(ExecutionError, "%s", err)
		}
		d.Session.Put(firstHandle(cmd), result)
		return ok("aggregated")
	default:
		return errResponse(IncorrectFormat, "expected 1 or 2 arguments")
	}
}

func (d *Dispatcher) execElementWise(cmd *command.Command, fn func(v1, v2 []int32) (*engine.Vector, error)) *Response {
	if len(cmd.Args) != 2 {
		return errResponse(IncorrectFormat, "expected 2 arguments")
	}
	v1, err := d.resolveData(cmd.Args[0])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	v2, err := d.resolveData(cmd.Args[1])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	result, err := fn(v1, v2)
	if err != nil {
		return errResponse(ExecutionError, "%s", err)
	}
	d.Session.Put(firstHandle(cmd), result)
	return ok("computed")
}

func (d *Dispatcher) execJoin(cmd *command.Command) *Response {
	if len(cmd.Args) != 5 {
		return errResponse(IncorrectFormat, "join: expected 5 arguments")
	}
	if len(cmd.Handles) != 2 {
		return errResponse(IncorrectFormat, "join: expected 2 destination handles")
	}
	v1, err := d.resolveData(cmd.Args[0])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	p1, err := d.resolveData(cmd.Args[1])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	v2, err := d.resolveData(cmd.Args[2])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	p2, err := d.resolveData(cmd.Args[3])
	if err != nil {
		return errResponse(ObjectNotFound, "%s", err)
	}
	if len(v1) != len(p1) || len(v2) != len(p2) {
		return errResponse(ExecutionError, "join: value/position length mismatch")
	}

	var out1, out2 *engine.Vector
	switch cmd.Args[4] {
	case "hash":
		out1, out2 = exec.HashJoin(v1, p1, v2, p2)
	case "nested-loop":
		out1, out2 = exec.NestedLoopJoin(v1, p1, v2, p2)
	default:
		return errResponse(IncorrectFormat, "join: unknown kind %q", cmd.Args[4])
	}
	d.Session.Put(cmd.Handles[0], out1)
	d.Session.Put(cmd.Handles[1], out2)
	return ok("joined")
}

func (d *Dispatcher) execPrint(cmd *command.Command) *Response {
	if len(cmd.Args) == 0 {
		return errResponse(IncorrectFormat, "print: expected at least 1 argument")
	}
	vectors := make([]*engine.Vector, len(cmd.Args))
	for i, a := range cmd.Args {
		_, vec, err := d.resolveVector(a)
		if err != nil || vec == nil {
			return errResponse(ObjectNotFound, "print: %q not found", a)
		}
		vectors[i] = vec
	}
	if _, err := exec.BuildPrint(vectors); err != nil {
		return errResponse(ExecutionError, "%s", err)
	}
	return &Response{Status: OKDone, Vectors: vectors, Message: "printed"}
}

// resolveData resolves a value argument that is always a dense int32 slice:
// either a qualified column or a context handle's INT vector.
func (d *Dispatcher) resolveData(name string) ([]int32, error) {
	col, vec, err := d.resolveVector(name)
	if err != nil {
		return nil, err
	}
	if col != nil {
		return col.Data, nil
	}
	if vec.Type != engine.Int {
		return nil, fmt.Errorf("%s: expected an INT vector", name)
	}
	return vec.Ints, nil
}

func firstHandle(cmd *command.Command) string {
	if len(cmd.Handles) > 0 {
		return cmd.Handles[0]
	}
	return ""
}
