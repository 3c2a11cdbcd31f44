package tracing_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/regsim/datarecording"
	"github.com/sarchlab/regsim/sim"
	"github.com/sarchlab/regsim/tracing"
)

type testTimeTeller struct {
	currentTime sim.VTimeInSec
}

func (t *testTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.currentTime
}

type recordedAccess struct {
	ID        string
	Kind      string
	Location  string
	Address   uint32
	Data      uint64
	StartTime float64
	EndTime   float64
	Phases    int
}

var _ = Describe("DBTracer", func() {
	var (
		db         *sql.DB
		timeTeller *testTimeTeller
		recorder   datarecording.DataRecorder
		tracer     *tracing.DBTracer
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).To(BeNil())

		timeTeller = &testTimeTeller{}
		recorder = datarecording.NewWithDB(db)
		tracer = tracing.NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		db.Close()
	})

	It("should record an access with its start and end time", func() {
		timeTeller.currentTime = 1e-9
		tracer.StartAccess(tracing.Access{
			ID:      "1",
			Kind:    tracing.AccessKindWrite,
			Where:   "RegBank",
			Address: 3,
			Data:    0xBB,
		})

		timeTeller.currentTime = 3e-9
		tracer.EndAccess(tracing.Access{
			ID:      "1",
			Kind:    tracing.AccessKindWrite,
			Where:   "RegBank",
			Address: 3,
			Data:    0xBB,
			Phases:  2,
		})

		recorder.Flush()

		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(tracing.AccessTableName, recordedAccess{})
		results, count, err := reader.Query(
			context.Background(),
			tracing.AccessTableName,
			datarecording.QueryParams{},
		)

		Expect(err).To(BeNil())
		Expect(count).To(Equal(1))

		entry := results[0].(*recordedAccess)
		Expect(entry.Kind).To(Equal("write"))
		Expect(entry.Location).To(Equal("RegBank"))
		Expect(entry.Address).To(Equal(uint32(3)))
		Expect(entry.Data).To(Equal(uint64(0xBB)))
		Expect(entry.StartTime).To(Equal(1e-9))
		Expect(entry.EndTime).To(Equal(3e-9))
		Expect(entry.Phases).To(Equal(2))
	})

	It("should ignore an end without a matching start", func() {
		timeTeller.currentTime = 2e-9
		tracer.EndAccess(tracing.Access{ID: "orphan", Kind: "read"})

		recorder.Flush()

		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(tracing.AccessTableName, recordedAccess{})
		results, _, err := reader.Query(
			context.Background(),
			tracing.AccessTableName,
			datarecording.QueryParams{},
		)

		Expect(err).To(BeNil())

		entry := results[0].(*recordedAccess)
		Expect(entry.StartTime).To(Equal(entry.EndTime))
	})
})

var _ = Describe("AverageLatencyTracer", func() {
	It("should average latencies over completed accesses", func() {
		timeTeller := &testTimeTeller{}
		tracer := tracing.NewAverageLatencyTracer(timeTeller, nil)

		timeTeller.currentTime = 1e-9
		tracer.StartAccess(tracing.Access{ID: "1"})
		timeTeller.currentTime = 3e-9
		tracer.EndAccess(tracing.Access{ID: "1"})

		timeTeller.currentTime = 5e-9
		tracer.StartAccess(tracing.Access{ID: "2"})
		timeTeller.currentTime = 9e-9
		tracer.EndAccess(tracing.Access{ID: "2"})

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(float64(tracer.AverageLatency())).
			To(BeNumerically("~", 3e-9, 1e-12))
	})

	It("should skip accesses rejected by the filter", func() {
		timeTeller := &testTimeTeller{}
		tracer := tracing.NewAverageLatencyTracer(
			timeTeller,
			func(a tracing.Access) bool {
				return a.Kind == tracing.AccessKindWrite
			})

		tracer.StartAccess(tracing.Access{ID: "1", Kind: "read"})
		tracer.EndAccess(tracing.Access{ID: "1", Kind: "read"})

		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
	})
})
