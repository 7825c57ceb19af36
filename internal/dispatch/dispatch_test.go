package dispatch

import (
	"testing"

	"github.com/Hareesh108/haruDB/internal/command"
	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/session"
	"github.com/stretchr/testify/require"
)

func newDispatcher() *Dispatcher {
	cat := engine.NewCatalog()
	sess := session.New(8)
	return New(cat, sess, 4, 2, engine.DefaultMaxBtreeKeys)
}

func run(t *testing.T, d *Dispatcher, line string) *Response {
	t.Helper()
	cmd, err := command.Parse(line)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	return d.Execute(cmd)
}

func TestFullLifecycle(t *testing.T) {
	d := newDispatcher()

	resp := run(t, d, `create(db,"db1")`)
	require.Equal(t, OKDone, resp.Status)

	resp = run(t, d, `create(tbl,"tbl1","db1",2)`)
	require.Equal(t, OKDone, resp.Status)

	resp = run(t, d, `create(col,"a","db1.tbl1")`)
	require.Equal(t, OKDone, resp.Status)
	resp = run(t, d, `create(col,"b","db1.tbl1")`)
	require.Equal(t, OKDone, resp.Status)

	resp = run(t, d, `create(idx,"db1.tbl1.a","sorted","clustered")`)
	require.Equal(t, OKDone, resp.Status)

	for _, row := range []string{
		`relational_insert(db1.tbl1,30,1)`,
		`relational_insert(db1.tbl1,10,2)`,
		`relational_insert(db1.tbl1,20,3)`,
	} {
		resp = run(t, d, row)
		require.Equal(t, OKDone, resp.Status, resp.Message)
	}

	tbl := d.Catalog.Databases["db1"].TableByName("tbl1")
	require.Equal(t, []int32{10, 20, 30}, tbl.Columns[0].Data)

	resp = run(t, d, `pos1=select(db1.tbl1.a,15,25)`)
	require.Equal(t, OKDone, resp.Status)
	posVec, err := d.Session.Get("pos1")
	require.NoError(t, err)
	require.Equal(t, []int32{1}, posVec.Ints)

	resp = run(t, d, `vals1=fetch(db1.tbl1.b,pos1)`)
	require.Equal(t, OKDone, resp.Status)
	valsVec, err := d.Session.Get("vals1")
	require.NoError(t, err)
	require.Equal(t, []int32{3}, valsVec.Ints)

	resp = run(t, d, `sumh=sum(db1.tbl1.a)`)
	require.Equal(t, OKDone, resp.Status)
	sumVec, err := d.Session.Get("sumh")
	require.NoError(t, err)
	require.Equal(t, []int64{60}, sumVec.Longs)
}

func TestBatchQueriesDefersSelectUntilExecute(t *testing.T) {
	d := newDispatcher()
	run(t, d, `create(db,"db1")`)
	run(t, d, `create(tbl,"tbl1","db1",1)`)
	run(t, d, `create(col,"a","db1.tbl1")`)
	for _, row := range []string{
		`relational_insert(db1.tbl1,1)`,
		`relational_insert(db1.tbl1,5)`,
		`relational_insert(db1.tbl1,10)`,
	} {
		run(t, d, row)
	}

	resp := run(t, d, `batch_queries()`)
	require.Equal(t, OKDone, resp.Status)

	resp = run(t, d, `h1=select(db1.tbl1.a,0,6)`)
	require.Equal(t, OKWaitForResponse, resp.Status)

	resp = run(t, d, `batch_execute()`)
	require.Equal(t, OKDone, resp.Status)

	got, err := d.Session.Get("h1")
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1}, got.Ints)
}

func TestJoinProducesTwoHandles(t *testing.T) {
	d := newDispatcher()
	run(t, d, `create(db,"db1")`)
	run(t, d, `create(tbl,"tbl1","db1",1)`)
	run(t, d, `create(col,"a","db1.tbl1")`)
	for _, v := range []string{"7", "3", "5", "3"} {
		run(t, d, `relational_insert(db1.tbl1,`+v+`)`)
	}
	run(t, d, `create(tbl,"tbl2","db1",1)`)
	run(t, d, `create(col,"a","db1.tbl2")`)
	for _, v := range []string{"3", "8", "5"} {
		run(t, d, `relational_insert(db1.tbl2,`+v+`)`)
	}

	run(t, d, `p1=select(db1.tbl1.a,null,null)`)
	run(t, d, `p2=select(db1.tbl2.a,null,null)`)

	resp := run(t, d, `r1,r2=join(db1.tbl1.a,p1,db1.tbl2.a,p2,hash)`)
	require.Equal(t, OKDone, resp.Status, resp.Message)

	out1, err := d.Session.Get("r1")
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, out1.Ints)
}

func TestCreateDatabaseNotFoundProducesObjectNotFound(t *testing.T) {
	d := newDispatcher()
	resp := run(t, d, `create(tbl,"tbl1","nope",2)`)
	require.Equal(t, ObjectNotFound, resp.Status)
}
